package transfer

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
)

// Action selects how the source file reaches the destination
type Action string

const (
	ActionSymlink  Action = "symlink"
	ActionHardlink Action = "hardlink"
	ActionCopy     Action = "copy"
	ActionMove     Action = "move"
)

// ParseAction validates an action string
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionSymlink, ActionHardlink, ActionCopy, ActionMove:
		return Action(s), nil
	}
	return "", fmt.Errorf("invalid action: %s (must be symlink, hardlink, copy, or move)", s)
}

// Request describes one placement operation. The placement decision has
// already been made by the caller - RemoveExisting carries it.
type Request struct {
	Source         string
	Destination    string
	Action         Action
	RemoveExisting bool // replace decision: delete the current destination first

	// Post-placement extras
	InfoFile bool // write <dest>.txt with source provenance
	Shasum   bool // write <dest>.sha256sum
	Chown    bool
	Owner    string
	Group    string
	FileMode string // octal, e.g. "0644"
	DirMode  string // octal, e.g. "0755"
}

// Result reports what a placement did
type Result struct {
	Destination   string
	BytesCopied   int64
	SourceRemoved bool
}

// Place executes a placement request. Copies go through a temporary file in
// the destination directory and are renamed into place, so an interrupted
// transfer never leaves a partial file at the destination path.
func Place(req Request) (*Result, error) {
	result := &Result{Destination: req.Destination}

	dirMode, err := parseMode(req.DirMode, 0755)
	if err != nil {
		return nil, fmt.Errorf("invalid directory mode: %w", err)
	}
	fileMode, err := parseMode(req.FileMode, 0644)
	if err != nil {
		return nil, fmt.Errorf("invalid file mode: %w", err)
	}

	dstDir := filepath.Dir(req.Destination)
	if err := os.MkdirAll(dstDir, dirMode); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	if req.RemoveExisting {
		if err := os.Remove(req.Destination); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove existing destination: %w", err)
		}
	}

	switch req.Action {
	case ActionSymlink:
		if err := os.Symlink(req.Source, req.Destination); err != nil {
			return nil, fmt.Errorf("symlink failed: %w", err)
		}

	case ActionHardlink:
		if err := os.Link(req.Source, req.Destination); err != nil {
			return nil, fmt.Errorf("hardlink failed: %w", err)
		}

	case ActionCopy:
		n, err := copyAtomic(req.Source, req.Destination)
		if err != nil {
			return nil, err
		}
		result.BytesCopied = n

	case ActionMove:
		// Rename first; cross-device moves fall back to copy+remove
		if err := os.Rename(req.Source, req.Destination); err != nil {
			n, cerr := copyAtomic(req.Source, req.Destination)
			if cerr != nil {
				return nil, fmt.Errorf("move failed: %w", cerr)
			}
			result.BytesCopied = n
			if rerr := os.Remove(req.Source); rerr != nil {
				return result, fmt.Errorf("failed to remove source after copy: %w", rerr)
			}
		}
		result.SourceRemoved = true

	default:
		return nil, fmt.Errorf("invalid action: %s", req.Action)
	}

	if req.InfoFile {
		if err := writeInfoFile(req.Source, req.Destination); err != nil {
			return result, err
		}
	}

	if req.Shasum {
		if err := writeShasumFile(req.Destination); err != nil {
			return result, err
		}
	}

	if req.Chown {
		if err := applyOwnership(req, fileMode); err != nil {
			return result, err
		}
	}

	return result, nil
}

// copyAtomic copies src into dst's directory under a temporary name and
// renames it into place. The partial file is removed on any failure.
func copyAtomic(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer srcFile.Close()

	tmp := dst + ".partial"
	dstFile, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination: %w", err)
	}

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		dstFile.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("copy failed: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("failed to finalize destination: %w", err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("failed to move destination into place: %w", err)
	}

	return n, nil
}

// writeInfoFile records where the sorted file came from
func writeInfoFile(src, dst string) error {
	contents := fmt.Sprintf("Source filename:  %s\nSource directory: %s\n",
		filepath.Base(src), filepath.Dir(src))

	if err := os.WriteFile(dst+".txt", []byte(contents), 0644); err != nil {
		return fmt.Errorf("failed to write info file: %w", err)
	}
	return nil
}

// writeShasumFile writes a sha256sum-compatible checksum file next to the
// destination
func writeShasumFile(dst string) error {
	f, err := os.Open(dst)
	if err != nil {
		return fmt.Errorf("failed to open destination for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("failed to checksum destination: %w", err)
	}

	line := fmt.Sprintf("%x *%s\n", h.Sum(nil), filepath.Base(dst))
	if err := os.WriteFile(dst+".sha256sum", []byte(line), 0644); err != nil {
		return fmt.Errorf("failed to write checksum file: %w", err)
	}
	return nil
}

// applyOwnership chowns and chmods the destination and its sidecar files
func applyOwnership(req Request, fileMode os.FileMode) error {
	uid, gid, err := lookupIDs(req.Owner, req.Group)
	if err != nil {
		return err
	}

	targets := []string{req.Destination}
	if req.InfoFile {
		targets = append(targets, req.Destination+".txt")
	}
	if req.Shasum {
		targets = append(targets, req.Destination+".sha256sum")
	}

	for _, target := range targets {
		if err := os.Chown(target, uid, gid); err != nil {
			return fmt.Errorf("failed to chown %s: %w", target, err)
		}
		if err := os.Chmod(target, fileMode); err != nil {
			return fmt.Errorf("failed to chmod %s: %w", target, err)
		}
	}

	return nil
}

// lookupIDs resolves user and group names to numeric IDs
func lookupIDs(owner, group string) (int, int, error) {
	u, err := user.Lookup(owner)
	if err != nil {
		return 0, 0, fmt.Errorf("unknown user %s: %w", owner, err)
	}
	g, err := user.LookupGroup(group)
	if err != nil {
		return 0, 0, fmt.Errorf("unknown group %s: %w", group, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, fmt.Errorf("non-numeric uid for %s: %w", owner, err)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return 0, 0, fmt.Errorf("non-numeric gid for %s: %w", group, err)
	}

	return uid, gid, nil
}

// parseMode parses an octal mode string, tolerating a "0o" prefix
func parseMode(s string, fallback os.FileMode) (os.FileMode, error) {
	if s == "" {
		return fallback, nil
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal mode %q: %w", s, err)
	}
	return os.FileMode(n), nil
}
