package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nomadcxx/mediasort/internal/sorter"
)

// Report represents one sorting run's outcome list
type Report struct {
	Timestamp  time.Time           `json:"timestamp"`
	SourcePath string              `json:"source_path"`
	Action     string              `json:"action"`
	DryRun     bool                `json:"dry_run"`
	Results    []sorter.FileResult `json:"results"`

	Placed  int `json:"placed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	Planned int `json:"planned"`
}

// Build assembles a report from a run's results
func Build(sourcePath, action string, dryRun bool, results []sorter.FileResult) Report {
	report := Report{
		Timestamp:  time.Now(),
		SourcePath: sourcePath,
		Action:     action,
		DryRun:     dryRun,
		Results:    results,
	}

	for _, r := range results {
		switch r.Outcome {
		case sorter.OutcomeCreated, sorter.OutcomeReplaced:
			report.Placed++
		case sorter.OutcomeSkipped:
			report.Skipped++
		case sorter.OutcomeFailed:
			report.Failed++
		case sorter.OutcomePlanned:
			report.Planned++
		}
	}

	return report
}

// HasFailures reports whether the run's exit status should be non-zero
func (r Report) HasFailures() bool {
	return r.Failed > 0
}

// Generate writes the report as JSON (machine-readable, loadable by the
// view command) and text (human-readable) and returns the JSON path
func Generate(report Report) (string, error) {
	reportDir := getReportDir()
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := report.Timestamp.Format("20060102_150405")

	jsonPath := filepath.Join(reportDir, timestamp+".json")
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	txtPath := filepath.Join(reportDir, timestamp+".txt")
	if err := os.WriteFile(txtPath, []byte(buildReportContent(report)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return jsonPath, nil
}

// Load reads a JSON report back from disk
func Load(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read report file: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("failed to parse report: %w", err)
	}

	return report, nil
}

// getReportDir returns the report directory path
func getReportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/mediasort/sort_results"
	}
	return filepath.Join(home, ".local/share/mediasort/sort_results")
}

// buildReportContent generates the report text
func buildReportContent(report Report) string {
	var sb strings.Builder

	sb.WriteString("MEDIASORT RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", report.Timestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Source: %s\n", report.SourcePath))
	sb.WriteString(fmt.Sprintf("Action: %s\n", report.Action))
	if report.DryRun {
		sb.WriteString("Mode: dry-run\n")
	}
	sb.WriteString("\n")

	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Files processed: %d\n", len(report.Results)))
	sb.WriteString(fmt.Sprintf("Placed:  %d\n", report.Placed))
	sb.WriteString(fmt.Sprintf("Skipped: %d\n", report.Skipped))
	sb.WriteString(fmt.Sprintf("Failed:  %d\n", report.Failed))
	if report.DryRun {
		sb.WriteString(fmt.Sprintf("Planned: %d\n", report.Planned))
	}
	sb.WriteString("\n")

	sb.WriteString("RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	for i, r := range report.Results {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, strings.ToUpper(string(r.Outcome)), filepath.Base(r.Source)))
		sb.WriteString(fmt.Sprintf("   Source:      %s\n", r.Source))
		if r.Destination != "" {
			sb.WriteString(fmt.Sprintf("   Destination: %s\n", r.Destination))
		}
		if r.Reason != "" {
			sb.WriteString(fmt.Sprintf("   Reason:      %s\n", r.Reason))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
