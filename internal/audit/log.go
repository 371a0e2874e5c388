// Package audit appends one JSON record per run to a JSONL file. Records
// carry counts and target identities only; key material is never written.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redactyl/keyelf/internal/types"
)

type RunRecord struct {
	Timestamp     time.Time       `json:"timestamp"`
	RunID         string          `json:"run_id"`
	Target        string          `json:"target"`
	Mode          types.Mode      `json:"mode"`
	UniqueKeys    int             `json:"unique_keys"`
	FilesScanned  int             `json:"files_scanned"`
	BytesScanned  int64           `json:"bytes_scanned"`
	FailureCounts map[string]int  `json:"failure_counts,omitempty"`
	Failures      []types.Failure `json:"failures,omitempty"`
	Warnings      int             `json:"warnings,omitempty"`
	SinkErrors    int             `json:"sink_errors,omitempty"`
	Interrupted   bool            `json:"interrupted,omitempty"`
	OutputPath    string          `json:"output_path,omitempty"`
	Duration      string          `json:"duration"`
	Sources       map[string]int  `json:"sources,omitempty"`
}

type AuditLog struct {
	logPath string
}

func NewAuditLog(path string) *AuditLog {
	return &AuditLog{logPath: path}
}

func (a *AuditLog) Path() string { return a.logPath }

// maxRecordSize bounds one JSONL line; large failure lists stay well below.
const maxRecordSize = 16 << 20

// logLine is one line of the audit file. Lines that do not decode keep
// their raw text so rewriting the file never drops them.
type logLine struct {
	raw    string
	record RunRecord
	ok     bool
}

func (a *AuditLog) readLines() ([]logLine, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var lines []logLine
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	for sc.Scan() {
		raw := sc.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		l := logLine{raw: raw}
		l.ok = json.Unmarshal([]byte(raw), &l.record) == nil
		lines = append(lines, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	return lines, nil
}

// LoadHistory returns the recorded runs, newest first. Unreadable lines are
// skipped.
func (a *AuditLog) LoadHistory() ([]RunRecord, error) {
	lines, err := a.readLines()
	if err != nil {
		return nil, err
	}
	var records []RunRecord
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].ok {
			records = append(records, lines[i].record)
		}
	}
	return records, nil
}

func (a *AuditLog) LogRun(record RunRecord) error {
	if record.RunID == "" {
		record.RunID = fmt.Sprintf("run_%d", time.Now().Unix())
	}
	if dir := filepath.Dir(a.logPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create audit log dir: %w", err)
		}
	}

	// owner-only: failures name evidence paths
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record at index in LoadHistory order. Every
// other line, readable or not, is kept as it was.
func (a *AuditLog) DeleteRecord(index int) error {
	lines, err := a.readLines()
	if err != nil {
		return err
	}

	target := -1
	seen := 0
	for i := len(lines) - 1; i >= 0; i-- {
		if !lines[i].ok {
			continue
		}
		if seen == index {
			target = i
			break
		}
		seen++
	}
	if index < 0 || target < 0 {
		return fmt.Errorf("invalid index: %d", index)
	}

	var buf bytes.Buffer
	for i, l := range lines {
		if i == target {
			continue
		}
		buf.WriteString(l.raw)
		buf.WriteByte('\n')
	}

	tmp := a.logPath + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to rewrite audit log: %w", err)
	}
	if err := os.Rename(tmp, a.logPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rewrite audit log: %w", err)
	}
	return nil
}

// CreateRunRecord summarizes rep. Per-source key counts are kept; the keys
// themselves are not.
func CreateRunRecord(rep types.Report) RunRecord {
	counts := make(map[string]int)
	for _, f := range rep.Failures {
		counts[string(f.Reason)]++
	}
	sources := make(map[string]int)
	for _, k := range rep.Keys {
		sources[k.Source]++
	}
	return RunRecord{
		Timestamp:     time.Now(),
		Target:        rep.Target,
		Mode:          rep.Mode,
		UniqueKeys:    rep.UniqueKeys(),
		FilesScanned:  rep.FilesScanned,
		BytesScanned:  rep.BytesScanned,
		FailureCounts: counts,
		Failures:      rep.Failures,
		Warnings:      len(rep.Warnings),
		SinkErrors:    rep.SinkErrors,
		Interrupted:   rep.Interrupted,
		OutputPath:    rep.OutputPath,
		Duration:      rep.Duration.String(),
		Sources:       sources,
	}
}
