package sorter

import (
	"path/filepath"
	"testing"
)

func TestMovieDestination(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		year     string
		tags     []string
		ext      string
		expected string
	}{
		{
			name:     "with metainfo tags",
			title:    "Great Movie, The",
			year:     "2019",
			tags:     []string{"1080p", "BD"},
			ext:      ".mkv",
			expected: "Great Movie, The (2019)/Great Movie, The (2019) - [1080p BD].mkv",
		},
		{
			name:     "without tags",
			title:    "Inception",
			year:     "2010",
			tags:     nil,
			ext:      ".mp4",
			expected: "Inception (2010)/Inception (2010).mp4",
		},
		{
			name:     "title with slash is sanitized",
			title:    "Fahrenheit 9/11",
			year:     "2004",
			tags:     nil,
			ext:      ".mkv",
			expected: "Fahrenheit 9-11 (2004)/Fahrenheit 9-11 (2004).mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MovieDestination("/library/movies", tt.title, tt.year, tt.tags, tt.ext)
			want := filepath.Join("/library/movies", tt.expected)
			if got != want {
				t.Errorf("MovieDestination() = %q, want %q", got, want)
			}
		})
	}
}

func TestTVDestination(t *testing.T) {
	tests := []struct {
		name         string
		series       string
		season       int
		episode      int
		episodeTitle string
		expected     string
	}{
		{
			name:         "with episode title",
			series:       "My Show",
			season:       2,
			episode:      5,
			episodeTitle: "Pilot Redux",
			expected:     "My Show/Season 02/My Show - S02E05 - Pilot Redux.mkv",
		},
		{
			name:     "without episode title",
			series:   "My Show",
			season:   1,
			episode:  1,
			expected: "My Show/Season 01/My Show - S01E01.mkv",
		},
		{
			name:         "numbers over 99 keep natural width",
			series:       "Long Show",
			season:       1,
			episode:      104,
			episodeTitle: "",
			expected:     "Long Show/Season 01/Long Show - S01E104.mkv",
		},
		{
			name:         "episode title quotes removed and slash dashed",
			series:       "My Show",
			season:       3,
			episode:      7,
			episodeTitle: `The "Good"/Bad One`,
			expected:     "My Show/Season 03/My Show - S03E07 - The Good-Bad One.mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TVDestination("/library/tv", tt.series, tt.season, tt.episode, tt.episodeTitle, ".mkv")
			want := filepath.Join("/library/tv", tt.expected)
			if got != want {
				t.Errorf("TVDestination() = %q, want %q", got, want)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Plain Title", "Plain Title"},
		{"A/B", "A-B"},
		{`Say "Hi"`, "Say Hi"},
		{"What? When: Where*", "What When Where"},
	}

	for _, tt := range tests {
		got := SanitizeName(tt.input)
		if got != tt.expected {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
