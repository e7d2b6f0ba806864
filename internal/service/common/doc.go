// Package common holds helpers shared by several services.
//
// It provides a gRPC client for the schedule service with per-call timeouts and
// a guard that keeps two controllers from driving the same outputs.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
