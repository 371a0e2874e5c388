package report

import (
	"encoding/json"
	"io"

	"github.com/redactyl/keyelf/internal/types"
)

const (
	ruleKey     = "raw-ec-private-key"
	ruleFailure = "target-not-scanned"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt `json:"artifactLocation"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

// WriteSARIF writes the report as SARIF 2.1.0. Keys appear masked; the hex
// sink remains the only place full key material is written.
func WriteSARIF(w io.Writer, rep types.Report, version string) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    "keyelf",
			Version: version,
			Rules: []sarifRule{
				{ID: ruleKey, ShortDescription: sarifMessage{Text: "Raw secp256k1 private key following a DER marker"}},
				{ID: ruleFailure, ShortDescription: sarifMessage{Text: "Target could not be scanned to completion"}},
			},
		}},
		Results: []sarifResult{},
		Properties: map[string]any{
			"uniqueKeys":   rep.UniqueKeys(),
			"filesScanned": rep.FilesScanned,
			"bytesScanned": rep.BytesScanned,
			"failures":     len(rep.Failures),
			"interrupted":  rep.Interrupted,
		},
	}
	for _, k := range rep.Keys {
		run.Results = append(run.Results, sarifResult{
			RuleID:    ruleKey,
			RuleIndex: 0,
			Level:     "error",
			Message:   sarifMessage{Text: "private key candidate " + maskValue(k.WIFCompressed)},
			Locations: location(k.Source),
		})
	}
	for _, f := range rep.Failures {
		msg := string(f.Reason)
		if f.Detail != "" {
			msg += ": " + f.Detail
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    ruleFailure,
			RuleIndex: 1,
			Level:     "warning",
			Message:   sarifMessage{Text: msg},
			Locations: location(f.Path),
		})
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func location(path string) []sarifLoc {
	if path == "" {
		return []sarifLoc{}
	}
	return []sarifLoc{{PhysicalLocation: sarifPhys{ArtifactLocation: sarifArt{URI: path}}}}
}
