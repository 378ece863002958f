package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TVDBClient handles TVDB v4 API requests
type TVDBClient struct {
	BaseURL    string
	APIKey     string
	Token      string
	HTTPClient *http.Client
}

// NewTVDBClient creates a new TVDB API client
func NewTVDBClient(baseURL, apiKey string) *TVDBClient {
	return &TVDBClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// tvdbLoginResponse represents the login response from TVDB
type tvdbLoginResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token string `json:"token"`
	} `json:"data"`
}

// tvdbSearchResponse represents a search result from TVDB
type tvdbSearchResponse struct {
	Status string `json:"status"`
	Data   []struct {
		TVDBID string `json:"tvdb_id"`
		Name   string `json:"name"`
		Year   string `json:"year"`
	} `json:"data"`
}

// tvdbEpisodesResponse represents the episode listing for a series
type tvdbEpisodesResponse struct {
	Status string `json:"status"`
	Data   struct {
		Episodes []struct {
			Name  string `json:"name"`
			Aired string `json:"aired"`
		} `json:"episodes"`
	} `json:"data"`
}

// tvdbTranslationResponse represents a series translation record
type tvdbTranslationResponse struct {
	Status string `json:"status"`
	Data   struct {
		Name string `json:"name"`
	} `json:"data"`
}

// Login authenticates with TVDB and retrieves a JWT token
func (c *TVDBClient) Login(ctx context.Context) error {
	if c.APIKey == "" {
		return fmt.Errorf("TVDB API key not configured")
	}

	payload, err := json.Marshal(map[string]string{"apikey": c.APIKey})
	if err != nil {
		return fmt.Errorf("failed to marshal login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/login", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login returned status %d: %s", resp.StatusCode, string(body))
	}

	var loginResp tvdbLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}

	if loginResp.Data.Token == "" {
		return fmt.Errorf("no token returned from login")
	}

	c.Token = loginResp.Data.Token
	return nil
}

// get performs an authenticated GET against the TVDB API
func (c *TVDBClient) get(ctx context.Context, path string, out interface{}) error {
	if c.Token == "" {
		if err := c.Login(ctx); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// SearchSeries searches TVDB for a series by name and returns the first match
func (c *TVDBClient) SearchSeries(ctx context.Context, name string) (*Candidate, error) {
	var result tvdbSearchResponse
	path := fmt.Sprintf("/search?query=%s&type=series", url.QueryEscape(name))
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}

	if len(result.Data) == 0 {
		return nil, ErrNotFound
	}

	first := result.Data[0]
	return &Candidate{
		ID:    first.TVDBID,
		Title: first.Name,
		Year:  first.Year,
	}, nil
}

// FetchEpisode retrieves one episode's metadata from a series' default order
func (c *TVDBClient) FetchEpisode(ctx context.Context, seriesID string, season, episode int) (*Episode, error) {
	var result tvdbEpisodesResponse
	path := fmt.Sprintf("/series/%s/episodes/default?page=0&season=%d&episodeNumber=%d", seriesID, season, episode)
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}

	if len(result.Data.Episodes) == 0 {
		return nil, ErrNotFound
	}

	first := result.Data.Episodes[0]
	return &Episode{
		Title: first.Name,
		Aired: first.Aired,
	}, nil
}

// FetchTranslation retrieves the translated series name for a language code
func (c *TVDBClient) FetchTranslation(ctx context.Context, seriesID, lang string) (string, error) {
	var result tvdbTranslationResponse
	path := fmt.Sprintf("/series/%s/translations/%s", seriesID, url.PathEscape(lang))
	if err := c.get(ctx, path, &result); err != nil {
		return "", err
	}

	if result.Data.Name == "" {
		return "", ErrNotFound
	}

	return result.Data.Name, nil
}
