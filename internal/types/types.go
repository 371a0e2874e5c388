package types

import "time"

// FoundKey is one discovered private-key candidate rendered in wallet
// encodings. RawHex is its identity.
type FoundKey struct {
	RawHex          string `json:"raw_hex"`
	WIFUncompressed string `json:"wif_uncompressed"`
	WIFCompressed   string `json:"wif_compressed"`

	// Source is the first target the key was reported from.
	Source              string `json:"source,omitempty"`
	AddressCompressed   string `json:"address_compressed,omitempty"`
	AddressUncompressed string `json:"address_uncompressed,omitempty"`
}

// Target is a file or device selected for scanning. Devices may not expose
// a size.
type Target struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size,omitempty"`
	SizeKnown bool      `json:"size_known"`
	ModTime   time.Time `json:"mod_time,omitempty"`
}

// State is the lifecycle position of one scanned target.
type State string

const (
	StateSpawned   State = "spawned"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCrashed   State = "crashed"
	StateTimedOut  State = "timed_out"

	// StateFailed is used by the direct in-process path and for targets
	// that never reached a worker.
	StateFailed State = "failed"
)

// Terminal reports whether no further transition can follow.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateCrashed, StateTimedOut, StateFailed:
		return true
	}
	return false
}

// Outcome is what an isolated worker execution produced.
type Outcome struct {
	State    State
	Lines    []string
	ExitCode int
	Stderr   string
	Err      error
}

// FailureReason tags an entry in the failure list.
type FailureReason string

const (
	ReasonTimeout FailureReason = "Timeout"
	ReasonCrashed FailureReason = "Crashed"
	ReasonError   FailureReason = "Error"
)

// Failure records a target that was sacrificed.
type Failure struct {
	Path     string        `json:"path"`
	Reason   FailureReason `json:"reason"`
	ExitCode int           `json:"exit_code,omitempty"`
	Detail   string        `json:"detail,omitempty"`
}

// TargetResult is the per-target line of a report.
type TargetResult struct {
	Path     string `json:"path"`
	State    State  `json:"state"`
	Lines    int    `json:"lines"`
	NewKeys  int    `json:"new_keys"`
	Cached   bool   `json:"cached,omitempty"`
	Warning  string `json:"warning,omitempty"`
	ExitCode int    `json:"exit_code,omitempty"`
}

// Mode names how a run dispatched its targets.
type Mode string

const (
	ModeDirectory Mode = "directory"
	ModeDirect    Mode = "direct"
)

// Report is the structured result of one run. Rendering is left to callers.
type Report struct {
	Target       string         `json:"target"`
	Mode         Mode           `json:"mode"`
	OutputPath   string         `json:"output_path,omitempty"`
	Keys         []FoundKey     `json:"keys"`
	Targets      []TargetResult `json:"targets"`
	Failures     []Failure      `json:"failures,omitempty"`
	Warnings     []string       `json:"warnings,omitempty"`
	FilesScanned int            `json:"files_scanned"`
	BytesScanned int64          `json:"bytes_scanned"`
	SinkErrors   int            `json:"sink_errors,omitempty"`
	Interrupted  bool           `json:"interrupted,omitempty"`
	Duration     time.Duration  `json:"duration"`
}

// UniqueKeys is the number of distinct keys discovered.
func (r Report) UniqueKeys() int { return len(r.Keys) }

// Completed counts targets that finished normally.
func (r Report) Completed() int {
	n := 0
	for _, t := range r.Targets {
		if t.State == StateCompleted {
			n++
		}
	}
	return n
}
