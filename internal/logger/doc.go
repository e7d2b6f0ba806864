// Package logger wraps zap for the light scheduler binaries:
//   - a global sugared logger writing to stderr, so command output on stdout stays clean,
//   - console or JSON encoding selected at startup,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - leveled convenience functions (Infof, ErrorKV, etc.).
//
// Services take a context and log through the logger stored in it.
package logger
