// Package engine drives a scan. A directory target is enumerated once and
// each file is scanned by a separate worker process so a fault in one file
// cannot end the run; a single file or device is scanned in-process. Results
// from either path are merged through one dedup context and returned as a
// types.Report. This package is internal; external consumers should use
// pkg/core.
package engine
