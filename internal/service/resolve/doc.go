// Package resolve implements the one-shot commands of the light-schedule CLI:
// resolving a schedule file for one instant, validating it, and previewing the
// levels across a whole day.
package resolve
