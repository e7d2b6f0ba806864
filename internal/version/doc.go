// Package version holds the build metadata of light-controller and
// light-schedule and the cobra `version` subcommand that prints it.
//
// Version, Commit and BuildTime are overridden with -ldflags -X at release time.
package version
