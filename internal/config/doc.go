// Package config loads the YAML files used by the light scheduler binaries.
//
// Config holds the controller settings (polling cadence, state file, optional
// gRPC, metrics and MQTT endpoints). Schedule is the on-disk form of the channel
// period tables; LoadSchedule turns it into a validated schedule.ChannelSet.
package config
