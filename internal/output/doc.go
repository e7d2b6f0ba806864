// Package output delivers resolved snapshots to the collaborators that drive
// the lights. Levels leave the scheduler as 0..255; scaling and polarity are up
// to whatever sits behind a driver.
package output
