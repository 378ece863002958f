package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nomadcxx/mediasort/internal/reporter"
	"github.com/Nomadcxx/mediasort/internal/sorter"
)

// Custom messages for progress updates
type progressMsg sorter.SortProgress
type sortCompleteMsg reporter.Report
type sortErrorMsg error

// LogLine is a single entry in the live sort log
type LogLine struct {
	Timestamp string
	Message   string
	Severity  string
}

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewSummary ViewMode = iota
	ViewResults
	ViewFailures
	ViewSorting
)

// Model represents the TUI state
type Model struct {
	report   reporter.Report
	mode     ViewMode
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	// Sorting state
	sorting         bool
	sortLogs        []LogLine
	currentProgress string
	progressPercent float64
	cancelled       bool
}

// NewModel creates a new TUI model with a sort report
func NewModel(report reporter.Report) Model {
	return Model{
		report: report,
		mode:   ViewSummary,
	}
}

// NewSortingModel creates a TUI model that starts in the live progress view
func NewSortingModel() Model {
	return Model{
		mode:    ViewSorting,
		sorting: true,
	}
}

// ProgressMessage wraps a progress update for delivery via Program.Send
func ProgressMessage(p sorter.SortProgress) tea.Msg {
	return progressMsg(p)
}

// SortCompleteMessage wraps a finished report for delivery via Program.Send
func SortCompleteMessage(r reporter.Report) tea.Msg {
	return sortCompleteMsg(r)
}

// SortErrorMessage wraps a fatal sort error for delivery via Program.Send
func SortErrorMessage(err error) tea.Msg {
	return sortErrorMsg(err)
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		// Update sorting progress
		m.currentProgress = msg.Message
		m.progressPercent = msg.Percentage

		logEntry := LogLine{
			Timestamp: fmt.Sprintf("%02d:%02d", msg.ElapsedSeconds/60, msg.ElapsedSeconds%60),
			Message:   msg.Message,
			Severity:  msg.Severity,
		}
		m.sortLogs = append(m.sortLogs, logEntry)
		if len(m.sortLogs) > 1000 {
			m.sortLogs = m.sortLogs[len(m.sortLogs)-1000:]
		}

		if m.mode == ViewSorting {
			m.viewport.SetContent(m.renderSorting())
			m.viewport.GotoBottom()
		}
		return m, nil

	case sortCompleteMsg:
		// Sort finished - switch to summary
		m.sorting = false
		m.report = reporter.Report(msg)
		m.mode = ViewSummary
		m.viewport.SetContent(m.renderSummary())
		return m, nil

	case sortErrorMsg:
		m.sorting = false
		m.sortLogs = append(m.sortLogs, LogLine{Timestamp: "00:00", Message: fmt.Sprintf("ERROR: %v", msg), Severity: "error"})
		m.viewport.SetContent(m.renderSorting())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.mode == ViewSorting {
				m.cancelled = true
				m.sortLogs = append(m.sortLogs, LogLine{Timestamp: "", Message: "Cancelling sort...", Severity: "warn"})
			}
			return m, tea.Quit

		case "esc":
			if m.mode != ViewSummary {
				m.mode = ViewSummary
				m.viewport.SetContent(m.renderSummary())
				return m, nil
			}
			return m, tea.Quit

		case "f1":
			m.mode = ViewResults
			m.viewport.SetContent(m.renderResults())
			m.viewport.GotoTop()
			return m, nil

		case "f2":
			if m.report.Failed > 0 {
				m.mode = ViewFailures
				m.viewport.SetContent(m.renderFailures())
				m.viewport.GotoTop()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			// Initialize viewport
			m.viewport = viewport.New(msg.Width, msg.Height-4) // Leave room for header/footer
			if m.mode == ViewSorting {
				m.viewport.SetContent(m.renderSorting())
			} else {
				m.viewport.SetContent(m.renderSummary())
			}
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}

		return m, nil
	}

	// Handle viewport updates (scrolling)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var header string
	var footer string

	switch m.mode {
	case ViewSummary:
		header = FormatHeader("MEDIASORT RESULTS")
		if m.report.Failed > 0 {
			footer = FormatFooter(
				FormatKeybinding("F1", "All Results"),
				FormatKeybinding("F2", "Failures"),
				FormatKeybinding("Esc", "Exit"),
			)
		} else {
			footer = FormatFooter(
				FormatKeybinding("F1", "All Results"),
				FormatKeybinding("Esc", "Exit"),
			)
		}

	case ViewResults:
		header = FormatHeader("SORT RESULTS (DETAILED)")
		scrollInfo := fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))
		footer = FormatFooter(
			FormatKeybinding("↑↓", "Scroll"),
			FormatKeybinding("PgUp/PgDn", "Page"),
			FormatKeybinding("Esc", "Back"),
			MutedStyle.Render(scrollInfo),
		)

	case ViewFailures:
		header = FormatHeader("FAILED FILES")
		scrollInfo := fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))
		footer = FormatFooter(
			FormatKeybinding("↑↓", "Scroll"),
			FormatKeybinding("PgUp/PgDn", "Page"),
			FormatKeybinding("Esc", "Back"),
			MutedStyle.Render(scrollInfo),
		)

	case ViewSorting:
		header = FormatHeader("SORTING IN PROGRESS")
		footer = FormatFooter(
			FormatKeybinding("Ctrl+C", "Cancel Sort"),
			MutedStyle.Render("Please wait..."),
		)
	}

	// Build full view
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.viewport.View(),
		footer,
	)
}

// renderSummary renders the summary view
func (m Model) renderSummary() string {
	var sb strings.Builder

	// ASCII header
	sb.WriteString(FormatASCIIHeader() + "\n\n")

	// Timestamp and source info
	sb.WriteString(InfoStyle.Render("Generated: ") + ContentStyle.Render(m.report.Timestamp.Format("2006-01-02 15:04:05")) + "\n")
	sb.WriteString(InfoStyle.Render("Source: ") + ContentStyle.Render(m.report.SourcePath) + "\n")
	sb.WriteString(InfoStyle.Render("Action: ") + ContentStyle.Render(m.report.Action) + "\n")
	if m.report.DryRun {
		sb.WriteString(WarningStyle.Render("DRY RUN - no files were moved") + "\n")
	}
	sb.WriteString("\n")

	// Outcome section
	sb.WriteString(TitleStyle.Render("OUTCOMES") + "\n")
	sb.WriteString(InfoStyle.Render("Files processed: ") + StatStyle.Render(fmt.Sprintf("%d", len(m.report.Results))) + "\n")
	if m.report.DryRun {
		sb.WriteString(InfoStyle.Render("Planned: ") + StatStyle.Render(fmt.Sprintf("%d", m.report.Planned)) + "\n")
	} else {
		sb.WriteString(InfoStyle.Render("Placed: ") + StatStyle.Render(fmt.Sprintf("%d", m.report.Placed)) + "\n")
	}
	sb.WriteString(InfoStyle.Render("Skipped: ") + StatStyle.Render(fmt.Sprintf("%d", m.report.Skipped)) + "\n")
	sb.WriteString(InfoStyle.Render("Failed: ") + StatStyle.Render(fmt.Sprintf("%d", m.report.Failed)) + "\n\n")

	if m.report.Failed > 0 {
		sb.WriteString(ErrorStyle.Render(fmt.Sprintf("%d file(s) could not be sorted.", m.report.Failed)) + "\n")
		sb.WriteString(InfoStyle.Render("Press F2 to review the failures.") + "\n\n")
	}

	// First few results as a preview
	if len(m.report.Results) > 0 {
		sb.WriteString(MutedStyle.Render("First 5 results:") + "\n")
		limit := 5
		if len(m.report.Results) < limit {
			limit = len(m.report.Results)
		}
		for i := 0; i < limit; i++ {
			sb.WriteString("  " + m.renderResultLine(m.report.Results[i]) + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderResults renders the full per-file result view
func (m Model) renderResults() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("ALL RESULTS") + "\n\n")

	if len(m.report.Results) == 0 {
		sb.WriteString(MutedStyle.Render("No media files were found.") + "\n")
		return sb.String()
	}

	for _, result := range m.report.Results {
		sb.WriteString(m.renderResultLine(result) + "\n")
		if result.Destination != "" {
			sb.WriteString("  " + MutedStyle.Render("-> ") + ContentStyle.Render(result.Destination) + "\n")
		}
		if result.Reason != "" {
			sb.WriteString("  " + MutedStyle.Render("Reason: ") + WarningStyle.Render(result.Reason) + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderFailures renders only the failed files
func (m Model) renderFailures() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("FAILED FILES") + "\n\n")

	if m.report.Failed == 0 {
		sb.WriteString(SuccessStyle.Render("✓ All files sorted successfully") + "\n")
		return sb.String()
	}

	count := 0
	for _, result := range m.report.Results {
		if !result.Failed() {
			continue
		}
		count++
		sb.WriteString(fmt.Sprintf("%s %s\n",
			WarningStyle.Render(fmt.Sprintf("%d.", count)),
			ContentStyle.Render(result.Source)))
		sb.WriteString(fmt.Sprintf("   %s %s\n\n",
			MutedStyle.Render("Reason:"),
			ErrorStyle.Render(result.Reason)))
	}

	return sb.String()
}

// renderResultLine renders one result with an outcome marker
func (m Model) renderResultLine(result sorter.FileResult) string {
	switch result.Outcome {
	case sorter.OutcomeCreated, sorter.OutcomeReplaced:
		return SuccessStyle.Render("PLACED: ") + ContentStyle.Render(result.Source)
	case sorter.OutcomePlanned:
		return InfoStyle.Render("PLANNED:") + " " + ContentStyle.Render(result.Source)
	case sorter.OutcomeSkipped:
		return WarningStyle.Render("SKIPPED:") + " " + MutedStyle.Render(result.Source)
	default:
		return ErrorStyle.Render("FAILED: ") + ContentStyle.Render(result.Source)
	}
}

// renderSorting renders the live progress view
func (m Model) renderSorting() string {
	var sb strings.Builder

	// ASCII header
	sb.WriteString(FormatASCIIHeader() + "\n\n")

	// Progress bar
	progressBar := renderProgressBar(m.progressPercent, 50)
	sb.WriteString(progressBar + "\n")
	sb.WriteString(fmt.Sprintf("  %s %.1f%%\n\n", m.currentProgress, m.progressPercent))

	// Log viewport (last 20 lines)
	sb.WriteString(TitleStyle.Render("SORT LOG") + "\n")
	sb.WriteString(strings.Repeat("─", 80) + "\n")

	startIdx := 0
	if len(m.sortLogs) > 20 {
		startIdx = len(m.sortLogs) - 20
	}

	for i := startIdx; i < len(m.sortLogs); i++ {
		entry := m.sortLogs[i]
		var lineStyle = MutedStyle
		if entry.Severity == "error" {
			lineStyle = ErrorStyle
		} else if entry.Severity == "warn" {
			lineStyle = WarningStyle
		}
		sb.WriteString(lineStyle.Render(fmt.Sprintf("%s %s", entry.Timestamp, entry.Message)) + "\n")
	}

	if m.cancelled {
		sb.WriteString("\n" + ErrorStyle.Render("Sort cancelled by user") + "\n")
	}

	return sb.String()
}

// renderProgressBar creates a text-based progress bar
func renderProgressBar(percent float64, width int) string {
	filled := int((percent / 100.0) * float64(width))
	if filled > width {
		filled = width
	}

	bar := "["
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += " "
		}
	}
	bar += "]"

	return SuccessStyle.Render(bar)
}

// Cancelled returns whether the user cancelled an in-progress sort
func (m Model) Cancelled() bool {
	return m.cancelled
}
