package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TMDBClient handles TMDB API requests
type TMDBClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewTMDBClient creates a new TMDB API client
func NewTMDBClient(baseURL, apiKey string) *TMDBClient {
	return &TMDBClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// tmdbSearchResponse represents a movie search response
type tmdbSearchResponse struct {
	Results []tmdbMovie `json:"results"`
}

// tmdbMovie represents one movie result
type tmdbMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"` // YYYY-MM-DD
}

// SearchMovie searches TMDB for a movie and picks the candidate whose release
// year matches yearHint. A single result is always taken as-is; otherwise an
// exact year match wins and a one-year-off match is kept as a fallback.
func (c *TMDBClient) SearchMovie(ctx context.Context, query, yearHint string) (*Candidate, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("TMDB API key not configured")
	}

	apiURL := fmt.Sprintf("%s/search/movie?api_key=%s&query=%s", c.BaseURL, c.APIKey, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result tmdbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Results) == 0 {
		return nil, ErrNotFound
	}

	chosen := pickByYear(result.Results, yearHint)
	if chosen == nil {
		return nil, ErrNotFound
	}

	return &Candidate{
		ID:    strconv.Itoa(chosen.ID),
		Title: chosen.Title,
		Year:  releaseYear(chosen.ReleaseDate),
	}, nil
}

// pickByYear selects the best movie candidate for a parsed year
func pickByYear(movies []tmdbMovie, yearHint string) *tmdbMovie {
	if len(movies) == 1 {
		return &movies[0]
	}

	hint, hintOK := atoiYear(yearHint)

	var nearMiss *tmdbMovie
	for i := range movies {
		year, ok := atoiYear(releaseYear(movies[i].ReleaseDate))

		// No usable hint: take the first result
		if !hintOK {
			return &movies[i]
		}
		if !ok {
			continue
		}

		if year == hint {
			return &movies[i]
		}
		// Keep overwriting so the last near-miss wins
		if year == hint+1 || year == hint-1 {
			nearMiss = &movies[i]
		}
	}

	return nearMiss
}

// releaseYear extracts the year from a YYYY-MM-DD release date
func releaseYear(releaseDate string) string {
	if idx := strings.Index(releaseDate, "-"); idx > 0 {
		return releaseDate[:idx]
	}
	return releaseDate
}

func atoiYear(s string) (int, bool) {
	if len(s) != 4 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FetchEpisode is not applicable to the movie provider
func (c *TMDBClient) FetchEpisode(ctx context.Context, seriesID string, season, episode int) (*Episode, error) {
	return nil, ErrNotFound
}

// FetchTranslation is not applicable to the movie provider
func (c *TMDBClient) FetchTranslation(ctx context.Context, seriesID, lang string) (string, error) {
	return "", ErrNotFound
}
