package sorter

import (
	"regexp"
	"strconv"
)

// MediaType distinguishes TV episodes from movies
type MediaType string

const (
	MediaTV    MediaType = "tv"
	MediaMovie MediaType = "movie"
	MediaAuto  MediaType = "" // classify from the tokens
)

// ParsedQuery is the classified form of a tokenized filename.
// TV entries always carry season+episode; movie entries never do.
type ParsedQuery struct {
	Type        MediaType
	TitleTokens []string
	Season      int      // TV only
	Episode     int      // TV only
	Year        string   // movie only, empty when no plausible year token
	Trailing    []string // marker/year token and everything after it
}

var (
	seMarkerRegex      = regexp.MustCompile(`[Ss]([0-9]+)[Ee]([0-9]+)`)
	seasonMarkerRegex  = regexp.MustCompile(`^[Ss]([0-9]+)$`)
	episodeMarkerRegex = regexp.MustCompile(`^[Ee]([0-9]+)$`)
	episodeWordRegex   = regexp.MustCompile(`^[Ee]pisode$`)
	digitsRegex        = regexp.MustCompile(`[0-9]+`)
	yearTokenRegex     = regexp.MustCompile(`^\(?([0-9]{4})\)?$`)
	yearParenRegex     = regexp.MustCompile(`^\([0-9]{4}\)$`)
)

// Classify partitions tokens into title tokens and trailing metadata and
// decides the media type. In auto mode only a combined SxxEyy marker makes
// the file a TV episode; everything else is a movie whose year is the last
// token that plausibly is one. Forcing TV additionally recovers loose
// season/episode markers ("S2", "E7", "Episode 7"), since titles like
// "Star Wars Episode 3" would otherwise misfile as episodes. Forcing movie
// skips TV marker detection entirely.
func Classify(tokens []string, force MediaType) ParsedQuery {
	if force != MediaMovie {
		if q, ok := classifyTV(tokens, force == MediaTV); ok {
			return q
		}
		if force == MediaTV {
			// Forced TV with no detectable marker: degraded, keep all
			// tokens and let the lookup layer report the failure.
			return ParsedQuery{Type: MediaTV, TitleTokens: tokens}
		}
	}
	return classifyMovie(tokens)
}

// classifyTV looks for season/episode markers among the tokens. The loose
// single-marker forms are only trusted when the caller forced the TV type.
func classifyTV(tokens []string, loose bool) (ParsedQuery, bool) {
	markerIdx := -1
	season := 0
	episode := 0
	expectEpisodeNum := false

	for idx, tok := range tokens {
		if m := seMarkerRegex.FindStringSubmatch(tok); m != nil {
			season, _ = strconv.Atoi(m[1])
			episode, _ = strconv.Atoi(m[2])
			markerIdx = idx
			break
		}
		if !loose {
			continue
		}
		if m := seasonMarkerRegex.FindStringSubmatch(tok); m != nil {
			if markerIdx < 0 {
				markerIdx = idx
			}
			season, _ = strconv.Atoi(m[1])
			continue
		}
		if m := episodeMarkerRegex.FindStringSubmatch(tok); m != nil {
			if markerIdx < 0 {
				markerIdx = idx
			}
			episode, _ = strconv.Atoi(m[1])
		} else if episodeWordRegex.MatchString(tok) {
			// "Episode 7" style: the number is the next token
			if markerIdx < 0 {
				markerIdx = idx
			}
			expectEpisodeNum = true
			continue
		} else if expectEpisodeNum {
			if d := digitsRegex.FindString(tok); d != "" {
				episode, _ = strconv.Atoi(d)
			}
			expectEpisodeNum = false
		}
		if episode > 0 {
			// An episode without a season marker means season 1
			if season == 0 {
				season = 1
			}
			break
		}
	}

	if markerIdx < 0 || episode == 0 {
		return ParsedQuery{}, false
	}

	title := tokens[:markerIdx]
	if len(title) == 0 {
		// Filenames like "DexterS01E03.mkv" glue the marker to the
		// title; strip the marker out of the token instead.
		title = []string{seMarkerRegex.ReplaceAllString(tokens[markerIdx], "")}
	}

	// Parenthesized years inside series titles belong to the provider's
	// disambiguation, not the search query
	cleaned := make([]string, 0, len(title))
	for _, tok := range title {
		if yearParenRegex.MatchString(tok) || tok == "" {
			continue
		}
		cleaned = append(cleaned, tok)
	}

	return ParsedQuery{
		Type:        MediaTV,
		TitleTokens: cleaned,
		Season:      season,
		Episode:     episode,
		Trailing:    tokens[markerIdx:],
	}, true
}

// classifyMovie finds the year token and splits the title off before it.
// The LAST plausible year wins so "2001 A Space Odyssey 1968" parses as
// title "2001 A Space Odyssey", year 1968.
func classifyMovie(tokens []string) ParsedQuery {
	yearIdx := len(tokens)
	year := ""

	for idx, tok := range tokens {
		m := yearTokenRegex.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		if m[1] >= "1900" && m[1] <= "2099" {
			yearIdx = idx
			year = m[1]
		}
	}

	q := ParsedQuery{
		Type:        MediaMovie,
		TitleTokens: tokens[:yearIdx],
		Year:        year,
	}
	if yearIdx < len(tokens) {
		q.Trailing = tokens[yearIdx:]
	}
	if len(q.TitleTokens) == 0 {
		// Degraded: no title before the year (or no tokens at all).
		// Keep everything and let the lookup fail downstream.
		q.TitleTokens = tokens
	}
	return q
}
