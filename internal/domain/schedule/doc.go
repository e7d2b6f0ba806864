// Package schedule contains the core domain logic of the light scheduler.
//
// A ChannelSet holds one validated table of periods per output channel and maps a
// TimeOfDay to a Snapshot of intensities. Between two periods the intensity fades
// linearly, with integer truncation toward zero.
package schedule
