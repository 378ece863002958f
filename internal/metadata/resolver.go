package metadata

import (
	"context"
	"errors"

	"github.com/Nomadcxx/mediasort/internal/config"
)

// Media type strings as used throughout the pipeline
const (
	MediaTV    = "tv"
	MediaMovie = "movie"
)

// ErrNotFound means the provider answered but had no candidate for the query.
// Transport and API failures are returned as ordinary wrapped errors.
var ErrNotFound = errors.New("no result found")

// Candidate is the single canonical result for a query. Disambiguation among
// multiple provider results happens inside the resolver, never downstream.
type Candidate struct {
	ID    string // provider's identifier for the title
	Title string // canonical title
	Year  string // release/first-air year, may be empty
}

// Episode holds per-episode metadata for TV entries
type Episode struct {
	Title string
	Aired string
}

// Resolver is the capability boundary to the external title databases.
// yearHint narrows movie searches and is ignored for TV.
type Resolver interface {
	SearchTitle(ctx context.Context, query, mediaType, yearHint string) (*Candidate, error)
	FetchEpisode(ctx context.Context, seriesID string, season, episode int) (*Episode, error)
	FetchTranslation(ctx context.Context, seriesID, lang string) (string, error)
}

// multiResolver routes TV queries to TVDB and movie queries to TMDB
type multiResolver struct {
	tvdb *TVDBClient
	tmdb *TMDBClient
}

// NewResolver builds the production resolver from configured providers
func NewResolver(cfg config.APIConfig) Resolver {
	return &multiResolver{
		tvdb: NewTVDBClient(cfg.TVDB.URL, cfg.TVDB.Key),
		tmdb: NewTMDBClient(cfg.TMDB.URL, cfg.TMDB.Key),
	}
}

func (r *multiResolver) SearchTitle(ctx context.Context, query, mediaType, yearHint string) (*Candidate, error) {
	if mediaType == MediaTV {
		return r.tvdb.SearchSeries(ctx, query)
	}
	return r.tmdb.SearchMovie(ctx, query, yearHint)
}

func (r *multiResolver) FetchEpisode(ctx context.Context, seriesID string, season, episode int) (*Episode, error) {
	return r.tvdb.FetchEpisode(ctx, seriesID, season, episode)
}

func (r *multiResolver) FetchTranslation(ctx context.Context, seriesID, lang string) (string, error) {
	return r.tvdb.FetchTranslation(ctx, seriesID, lang)
}
