// Package core provides a small, stable facade over keyelf's internal engine
// for external integrations. It re-exports a narrow API surface so other
// tools can depend on a stable import path without importing internal
// implementation packages.
//
// Example:
//
//	rep, err := core.Scan(ctx, core.Config{Target: "/dev/sdd2", OutputPath: "keys.txt"})
//	if err != nil { /* handle */ }
//	_ = core.MarshalReport(os.Stdout, rep)
package core
