// Package lighting implements the read-only gRPC transport of the light scheduler.
//
// The ScheduleService is declared directly in Go over protobuf well-known types,
// so no generated code is needed: GetSnapshot returns the latest snapshot and
// Resolve computes one for an arbitrary time of day. Nothing here edits the
// schedule.
package lighting
