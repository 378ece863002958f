package transfer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	return path
}

func TestParseAction(t *testing.T) {
	for _, valid := range []string{"symlink", "hardlink", "copy", "move"} {
		if _, err := ParseAction(valid); err != nil {
			t.Errorf("ParseAction(%q) unexpected error: %v", valid, err)
		}
	}

	if _, err := ParseAction("teleport"); err == nil {
		t.Error("expected error for invalid action")
	}
	if _, err := ParseAction(""); err == nil {
		t.Error("expected error for empty action")
	}
}

func TestPlaceCopy(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	src := writeSource(t, srcDir, "movie.mkv", "video data")
	dst := filepath.Join(dstDir, "Movie (2019)", "Movie (2019).mkv")

	result, err := Place(Request{Source: src, Destination: dst, Action: ActionCopy})
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	if result.BytesCopied != int64(len("video data")) {
		t.Errorf("BytesCopied = %d, want %d", result.BytesCopied, len("video data"))
	}
	if result.SourceRemoved {
		t.Error("copy must not remove the source")
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("destination not readable: %v", err)
	}
	if string(data) != "video data" {
		t.Errorf("destination content = %q", data)
	}

	// No partial file left behind
	if _, err := os.Stat(dst + ".partial"); !os.IsNotExist(err) {
		t.Error("partial file left at destination")
	}
}

func TestPlaceMove(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	src := writeSource(t, srcDir, "movie.mkv", "video data")
	dst := filepath.Join(dstDir, "movie.mkv")

	result, err := Place(Request{Source: src, Destination: dst, Action: ActionMove})
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	if !result.SourceRemoved {
		t.Error("move should report source removed")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("destination missing after move: %v", err)
	}
}

func TestPlaceSymlink(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	src := writeSource(t, srcDir, "movie.mkv", "video data")
	dst := filepath.Join(dstDir, "movie.mkv")

	if _, err := Place(Request{Source: src, Destination: dst, Action: ActionSymlink}); err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	target, err := os.Readlink(dst)
	if err != nil {
		t.Fatalf("destination is not a symlink: %v", err)
	}
	if target != src {
		t.Errorf("symlink target = %q, want %q", target, src)
	}
}

func TestPlaceHardlink(t *testing.T) {
	srcDir := t.TempDir()

	src := writeSource(t, srcDir, "movie.mkv", "video data")
	dst := filepath.Join(srcDir, "linked.mkv")

	if _, err := Place(Request{Source: src, Destination: dst, Action: ActionHardlink}); err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("destination not readable: %v", err)
	}
	if string(data) != "video data" {
		t.Errorf("destination content = %q", data)
	}
}

func TestPlaceRemoveExisting(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	src := writeSource(t, srcDir, "movie.mkv", "new version")
	dst := writeSource(t, dstDir, "movie.mkv", "old version")

	if _, err := Place(Request{Source: src, Destination: dst, Action: ActionCopy, RemoveExisting: true}); err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	data, _ := os.ReadFile(dst)
	if string(data) != "new version" {
		t.Errorf("destination content = %q, want replaced content", data)
	}
}

func TestPlaceInfoFileAndShasum(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	src := writeSource(t, srcDir, "Original.Scene.Name.mkv", "video data")
	dst := filepath.Join(dstDir, "Movie (2019).mkv")

	if _, err := Place(Request{
		Source:      src,
		Destination: dst,
		Action:      ActionCopy,
		InfoFile:    true,
		Shasum:      true,
	}); err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	info, err := os.ReadFile(dst + ".txt")
	if err != nil {
		t.Fatalf("info file missing: %v", err)
	}
	if !strings.Contains(string(info), "Original.Scene.Name.mkv") {
		t.Errorf("info file does not name the source: %q", info)
	}

	sum, err := os.ReadFile(dst + ".sha256sum")
	if err != nil {
		t.Fatalf("shasum file missing: %v", err)
	}
	line := string(sum)
	if !strings.HasSuffix(line, " *Movie (2019).mkv\n") {
		t.Errorf("shasum line has wrong format: %q", line)
	}
	if len(strings.Fields(line)[0]) != 64 {
		t.Errorf("shasum digest has wrong length: %q", line)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected os.FileMode
		wantErr  bool
	}{
		{"", 0644, false},
		{"0644", 0644, false},
		{"0o755", 0755, false},
		{"755", 0755, false},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMode(tt.input, 0644)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseMode(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseMode(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("parseMode(%q) = %o, want %o", tt.input, got, tt.expected)
		}
	}
}
