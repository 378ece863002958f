package sorter

import (
	"fmt"
	"os"
)

// Decision is the placement outcome for a computed destination path
type Decision string

const (
	DecisionCreate  Decision = "create"  // destination absent, proceed
	DecisionSkip    Decision = "skip"    // destination present, replace disabled
	DecisionReplace Decision = "replace" // destination present, replace enabled
)

// DecidePlacement checks the destination and the replace policy. Presence
// alone drives the decision; no version comparison is performed - upstream
// feeds are responsible for only delivering genuine upgrades.
func DecidePlacement(dstPath string, replace bool) (Decision, error) {
	_, err := os.Stat(dstPath)
	if os.IsNotExist(err) {
		return DecisionCreate, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat destination %s: %w", dstPath, err)
	}

	if replace {
		return DecisionReplace, nil
	}
	return DecisionSkip, nil
}
