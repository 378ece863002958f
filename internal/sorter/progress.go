package sorter

import "time"

// SortProgress represents real-time sorting progress
type SortProgress struct {
	Stage      string  // "discovering", "sorting", "complete"
	Current    int     // current file number
	Total      int     // total files discovered
	Percentage float64 // 0-100
	Message    string  // human-readable status
	Severity   string  // "", "warn", "error"

	// Statistics
	Placed  int
	Skipped int
	Failed  int

	// Timing
	StartTime      time.Time
	ElapsedSeconds int
}

// ProgressReporter helps send progress updates over an optional channel.
// All methods are safe on a nil reporter so the pipeline can run headless.
type ProgressReporter struct {
	ch        chan<- SortProgress
	startTime time.Time
	total     int

	placed  int
	skipped int
	failed  int
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(ch chan<- SortProgress) *ProgressReporter {
	return &ProgressReporter{
		ch:        ch,
		startTime: time.Now(),
	}
}

// Start sends initial progress with the discovered file count
func (pr *ProgressReporter) Start(total int, message string) {
	if pr == nil {
		return
	}
	pr.total = total
	pr.send("discovering", 0, message, "")
}

// Update sends a progress update
func (pr *ProgressReporter) Update(current int, message string) {
	if pr == nil {
		return
	}
	pr.send("sorting", current, message, "")
}

// Warn sends a non-fatal warning line
func (pr *ProgressReporter) Warn(current int, message string) {
	if pr == nil {
		return
	}
	pr.send("sorting", current, message, "warn")
}

// Record tallies one file outcome
func (pr *ProgressReporter) Record(outcome Outcome) {
	if pr == nil {
		return
	}
	switch outcome {
	case OutcomeCreated, OutcomeReplaced:
		pr.placed++
	case OutcomeSkipped:
		pr.skipped++
	case OutcomeFailed:
		pr.failed++
	}
}

// Complete sends the final progress message
func (pr *ProgressReporter) Complete(message string) {
	if pr == nil {
		return
	}
	pr.send("complete", pr.total, message, "")
}

func (pr *ProgressReporter) send(stage string, current int, message, severity string) {
	if pr.ch == nil {
		return
	}

	pct := 0.0
	if pr.total > 0 {
		pct = float64(current) / float64(pr.total) * 100.0
	}
	if stage == "complete" {
		pct = 100.0
	}

	pr.ch <- SortProgress{
		Stage:          stage,
		Current:        current,
		Total:          pr.total,
		Percentage:     pct,
		Message:        message,
		Severity:       severity,
		Placed:         pr.placed,
		Skipped:        pr.skipped,
		Failed:         pr.failed,
		StartTime:      pr.startTime,
		ElapsedSeconds: int(time.Since(pr.startTime).Seconds()),
	}
}
