package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/redactyl/keyelf/internal/types"
)

func TestWriteSARIF_KeysAndFailures(t *testing.T) {
	rep := types.Report{
		Keys:         []types.FoundKey{sampleKey},
		Failures:     []types.Failure{{Path: "disk/bad.bin", Reason: types.ReasonCrashed, ExitCode: 2}},
		FilesScanned: 3,
	}
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, rep, "1.0.0"); err != nil {
		t.Fatalf("WriteSARIF: %v", err)
	}
	if strings.Contains(buf.String(), sampleKey.WIFCompressed) || strings.Contains(buf.String(), sampleKey.RawHex) {
		t.Fatalf("SARIF must not carry full key material: %s", buf.String())
	}
	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Properties map[string]any `json:"properties"`
			Tool       struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v; body=%s", err, buf.String())
	}
	if doc.Version != "2.1.0" || len(doc.Runs) != 1 {
		t.Fatalf("unexpected document shape: %+v", doc)
	}
	run := doc.Runs[0]
	if run.Tool.Driver.Name != "keyelf" || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("unexpected driver: %+v", run.Tool.Driver)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	for _, r := range run.Results {
		if run.Tool.Driver.Rules[r.RuleIndex].ID != r.RuleID {
			t.Fatalf("ruleIndex %d does not point at %s", r.RuleIndex, r.RuleID)
		}
	}
	if run.Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI != "wallets/wallet.dat" {
		t.Fatalf("expected key source as location")
	}
	if run.Results[1].Level != "warning" {
		t.Fatalf("failures should be warnings, got %s", run.Results[1].Level)
	}
	if run.Properties["uniqueKeys"].(float64) != 1 || run.Properties["filesScanned"].(float64) != 3 {
		t.Fatalf("unexpected properties: %#v", run.Properties)
	}
}

func TestWriteSARIF_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, types.Report{}, "dev"); err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	results := doc["runs"].([]any)[0].(map[string]any)["results"].([]any)
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
