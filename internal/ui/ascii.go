package ui

import "github.com/charmbracelet/lipgloss"

// ASCII art for mediasort header as single string to preserve exact formatting
const mediasortASCII = `████  ████  ██████████  ████████  ██  ██████████  ██████████  ██████████  ██████████  ██████████
██████████  ████  ████  ████  ██  ██  ████  ████  ██████      ██████  ██  ████  ████        ████
██  ██  ██  ██████      ██  ████  ██  ██  ██████  ██████████  ██  ██████  ████  ████  ██████████
██  ██  ██  ████  ████  ██  ██  ████  ██  ██      ████  ████  ██  ██  ██  ████  ████    ████
██      ██  ██████████  ████████  ██  ██  ██████  ██████████  ████  ████  ██████████    ████    `

// FormatASCIIHeader renders the mediasort ASCII header with RAMA theme
// Render as single block to preserve spacing and structure
func FormatASCIIHeader() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(RAMARed).
		Bold(true)

	return headerStyle.Render(mediasortASCII)
}

// FormatASCIIHeaderWithSubtext renders header with subtitle
func FormatASCIIHeaderWithSubtext(subtext string) string {
	header := FormatASCIIHeader()

	subtitle := lipgloss.NewStyle().
		Foreground(RAMAMuted).
		Render(subtext)

	return header + "\n\n" + subtitle
}
