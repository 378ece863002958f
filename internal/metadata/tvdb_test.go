package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTVDBServer serves a fake TVDB v4 API with a login endpoint and a
// handler table keyed by request path
func newTVDBServer(t *testing.T, handlers map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "success",
				"data":   map[string]string{"token": "test-token"},
			})
			return
		}

		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if payload, ok := handlers[r.URL.Path]; ok {
			json.NewEncoder(w).Encode(payload)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

func TestTVDBSearchSeries(t *testing.T) {
	srv := newTVDBServer(t, map[string]interface{}{
		"/search": map[string]interface{}{
			"status": "success",
			"data": []map[string]string{
				{"tvdb_id": "12345", "name": "My Show", "year": "2015"},
				{"tvdb_id": "67890", "name": "My Show Revival", "year": "2021"},
			},
		},
	})
	defer srv.Close()

	client := NewTVDBClient(srv.URL, "test-key")
	cand, err := client.SearchSeries(context.Background(), "my show")
	if err != nil {
		t.Fatalf("SearchSeries() error: %v", err)
	}

	if cand.ID != "12345" {
		t.Errorf("ID = %q, want first result 12345", cand.ID)
	}
	if cand.Title != "My Show" {
		t.Errorf("Title = %q", cand.Title)
	}
	if cand.Year != "2015" {
		t.Errorf("Year = %q", cand.Year)
	}
}

func TestTVDBSearchSeriesEmpty(t *testing.T) {
	srv := newTVDBServer(t, map[string]interface{}{
		"/search": map[string]interface{}{
			"status": "success",
			"data":   []map[string]string{},
		},
	})
	defer srv.Close()

	client := NewTVDBClient(srv.URL, "test-key")
	_, err := client.SearchSeries(context.Background(), "nothing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTVDBFetchEpisode(t *testing.T) {
	srv := newTVDBServer(t, map[string]interface{}{
		"/series/12345/episodes/default": map[string]interface{}{
			"status": "success",
			"data": map[string]interface{}{
				"episodes": []map[string]string{
					{"name": "Pilot Redux", "aired": "2016-03-04"},
				},
			},
		},
	})
	defer srv.Close()

	client := NewTVDBClient(srv.URL, "test-key")
	ep, err := client.FetchEpisode(context.Background(), "12345", 2, 5)
	if err != nil {
		t.Fatalf("FetchEpisode() error: %v", err)
	}

	if ep.Title != "Pilot Redux" {
		t.Errorf("Title = %q", ep.Title)
	}
	if ep.Aired != "2016-03-04" {
		t.Errorf("Aired = %q", ep.Aired)
	}
}

func TestTVDBFetchEpisodeNotFound(t *testing.T) {
	// 404 from the API maps to ErrNotFound
	srv := newTVDBServer(t, nil)
	defer srv.Close()

	client := NewTVDBClient(srv.URL, "test-key")
	_, err := client.FetchEpisode(context.Background(), "99999", 1, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTVDBFetchTranslation(t *testing.T) {
	srv := newTVDBServer(t, map[string]interface{}{
		"/series/12345/translations/deu": map[string]interface{}{
			"status": "success",
			"data":   map[string]string{"name": "Meine Show"},
		},
	})
	defer srv.Close()

	client := NewTVDBClient(srv.URL, "test-key")
	name, err := client.FetchTranslation(context.Background(), "12345", "deu")
	if err != nil {
		t.Fatalf("FetchTranslation() error: %v", err)
	}
	if name != "Meine Show" {
		t.Errorf("translated name = %q", name)
	}
}

func TestTVDBLoginFailureWithoutKey(t *testing.T) {
	client := NewTVDBClient("http://unused.example", "")
	if err := client.Login(context.Background()); err == nil {
		t.Error("expected error logging in without an API key")
	}
}
