package reporter

import (
	"os"
	"strings"
	"testing"

	"github.com/Nomadcxx/mediasort/internal/sorter"
)

func sampleResults() []sorter.FileResult {
	return []sorter.FileResult{
		{Source: "/inbox/a.mkv", Destination: "/library/A (2019)/A (2019).mkv", Outcome: sorter.OutcomeCreated},
		{Source: "/inbox/b.mkv", Destination: "/library/B (2020)/B (2020).mkv", Outcome: sorter.OutcomeReplaced},
		{Source: "/inbox/c.mkv", Outcome: sorter.OutcomeSkipped, Reason: "destination exists and replace is disabled"},
		{Source: "/inbox/d.mkv", Outcome: sorter.OutcomeFailed, Reason: "no matching title found"},
	}
}

func TestBuild(t *testing.T) {
	report := Build("/inbox", "copy", false, sampleResults())

	if report.SourcePath != "/inbox" {
		t.Errorf("source path = %q", report.SourcePath)
	}
	if report.Action != "copy" {
		t.Errorf("action = %q", report.Action)
	}
	if report.Placed != 2 {
		t.Errorf("placed = %d, want 2 (created + replaced)", report.Placed)
	}
	if report.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", report.Skipped)
	}
	if report.Failed != 1 {
		t.Errorf("failed = %d, want 1", report.Failed)
	}
	if report.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestBuildDryRun(t *testing.T) {
	results := []sorter.FileResult{
		{Source: "/inbox/a.mkv", Outcome: sorter.OutcomePlanned},
		{Source: "/inbox/b.mkv", Outcome: sorter.OutcomePlanned},
	}

	report := Build("/inbox", "move", true, results)
	if !report.DryRun {
		t.Error("dry run flag not set")
	}
	if report.Planned != 2 {
		t.Errorf("planned = %d, want 2", report.Planned)
	}
	if report.Placed != 0 {
		t.Errorf("placed = %d, want 0 in dry run", report.Placed)
	}
}

func TestHasFailures(t *testing.T) {
	withFailure := Build("/inbox", "copy", false, sampleResults())
	if !withFailure.HasFailures() {
		t.Error("expected HasFailures with a failed result")
	}

	// Skips alone never fail a run
	skipsOnly := Build("/inbox", "copy", false, []sorter.FileResult{
		{Source: "/inbox/c.mkv", Outcome: sorter.OutcomeSkipped},
	})
	if skipsOnly.HasFailures() {
		t.Error("skipped results must not count as failures")
	}
}

func TestGenerateAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	report := Build("/inbox", "copy", false, sampleResults())

	jsonPath, err := Generate(report)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	loaded, err := Load(jsonPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.SourcePath != report.SourcePath {
		t.Errorf("round-trip source path = %q, want %q", loaded.SourcePath, report.SourcePath)
	}
	if len(loaded.Results) != len(report.Results) {
		t.Errorf("round-trip results = %d, want %d", len(loaded.Results), len(report.Results))
	}
	if loaded.Failed != report.Failed {
		t.Errorf("round-trip failed = %d, want %d", loaded.Failed, report.Failed)
	}

	// The text sibling exists alongside the JSON
	txtPath := strings.TrimSuffix(jsonPath, ".json") + ".txt"
	if _, err := os.Stat(txtPath); err != nil {
		t.Errorf("text report missing: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/report.json"); err == nil {
		t.Error("expected error for missing report")
	}
}

func TestBuildReportContent(t *testing.T) {
	report := Build("/inbox", "copy", false, sampleResults())
	content := buildReportContent(report)

	for _, want := range []string{
		"MEDIASORT RUN REPORT",
		"Files processed: 4",
		"[CREATED]",
		"[FAILED]",
		"no matching title found",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("report content missing %q", want)
		}
	}
}
