// Package controller runs the light-controller daemon: the control loop that
// reads the clock, resolves the schedule and hands every snapshot to the output
// drivers, plus the optional gRPC and metrics endpoints.
package controller
