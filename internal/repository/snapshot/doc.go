// Package snapshot persists the latest resolved snapshot.
//
// The FileRepository writes it as JSON so that tools outside the controller can
// read the current levels. The schedule itself is never written here.
package snapshot
