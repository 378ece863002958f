package sorter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nomadcxx/mediasort/internal/config"
	"github.com/Nomadcxx/mediasort/internal/metadata"
	"github.com/Nomadcxx/mediasort/internal/transfer"
)

// Per-file failure classes. All of them are recoverable: a batch never
// aborts because one file failed.
var (
	ErrInvalidExtension = errors.New("extension not in valid_extensions")
	ErrLookupNotFound   = errors.New("no matching title found")
	ErrLookupTransport  = errors.New("metadata lookup failed")
	ErrNoDestination    = errors.New("no destination configured for media type")
)

// Outcome is the terminal state of one file's pipeline run
type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeReplaced Outcome = "replaced"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
	OutcomePlanned  Outcome = "planned" // dry-run
)

// FileResult records one file's trip through the pipeline
type FileResult struct {
	Source      string    `json:"source"`
	Destination string    `json:"destination,omitempty"`
	MediaType   MediaType `json:"media_type,omitempty"`
	Query       string    `json:"query,omitempty"`
	Title       string    `json:"title,omitempty"`
	Outcome     Outcome   `json:"outcome"`
	Reason      string    `json:"reason,omitempty"`
}

// Failed reports whether this file counts against the run's exit status.
// Skipped collisions are policy, not failure.
func (r FileResult) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// Options are the per-run sorting settings, resolved from config and CLI
// flags by the caller
type Options struct {
	MoviesDest string
	TVDest     string
	ForceType  MediaType // MediaAuto to classify from the filename
	Action     transfer.Action
	Replace    bool
	TagMeta    bool
	DryRun     bool

	InfoFile bool
	Shasum   bool
	Chown    bool
	Owner    string
	Group    string
	FileMode string
	DirMode  string
}

// Sorter runs the filename interpretation and destination synthesis
// pipeline. The configuration tables are read-only after New, so a Sorter
// is safe to reuse across files.
type Sorter struct {
	cfg      *config.Config
	resolver metadata.Resolver
	rules    []MetainfoRule
	opts     Options
}

// New builds a Sorter, compiling the metainfo mapping once
func New(cfg *config.Config, resolver metadata.Resolver, opts Options) (*Sorter, error) {
	rules, err := CompileMetainfoMap(cfg.Parameters.MetainfoMap)
	if err != nil {
		return nil, err
	}

	return &Sorter{
		cfg:      cfg,
		resolver: resolver,
		rules:    rules,
		opts:     opts,
	}, nil
}

// SortPath sorts a single file, or every valid media file under a directory
// in lexical order. Per-file failures are recorded and the batch continues;
// the only terminal errors are an unreadable source path and cancellation.
func (s *Sorter) SortPath(ctx context.Context, srcPath string, pr *ProgressReporter) ([]FileResult, error) {
	info, err := os.Stat(srcPath)
	if err != nil {
		return nil, fmt.Errorf("source path not accessible: %s: %w", srcPath, err)
	}

	if !info.IsDir() {
		pr.Start(1, fmt.Sprintf("Sorting %s", filepath.Base(srcPath)))
		result := s.SortFile(ctx, srcPath)
		pr.Record(result.Outcome)
		pr.Complete(fmt.Sprintf("Done: %s -> %s", filepath.Base(srcPath), result.Outcome))
		return []FileResult{result}, nil
	}

	var files []string
	err = filepath.Walk(srcPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if s.cfg.HasValidExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", srcPath, err)
	}
	sort.Strings(files)

	pr.Start(len(files), fmt.Sprintf("Found %d media files", len(files)))

	var results []FileResult
	for i, file := range files {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		pr.Update(i+1, fmt.Sprintf("Sorting %s", filepath.Base(file)))
		result := s.SortFile(ctx, file)
		pr.Record(result.Outcome)
		if result.Outcome == OutcomeFailed {
			pr.Warn(i+1, fmt.Sprintf("%s: %s", filepath.Base(file), result.Reason))
		}
		results = append(results, result)
	}

	pr.Complete(fmt.Sprintf("Sorted %d files", len(results)))
	return results, nil
}

// SortFile runs the full pipeline for one file:
// tokenize -> classify -> query -> resolve -> override -> metainfo ->
// destination -> placement -> transfer.
func (s *Sorter) SortFile(ctx context.Context, srcPath string) FileResult {
	result := FileResult{Source: srcPath}

	base := filepath.Base(srcPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	if !s.cfg.HasValidExtension(srcPath) {
		return fail(result, ErrInvalidExtension)
	}

	tokens := Tokenize(name, s.cfg.Parameters.SplitCharacters, s.cfg.Parameters.MinSplitLength)
	query := Classify(tokens, s.opts.ForceType)
	result.MediaType = query.Type

	searchQuery := ApplySearchOverride(BuildQuery(query), s.cfg.Overrides.Search)
	result.Query = searchQuery

	title, year, seriesID, err := s.resolve(ctx, searchQuery, query)
	if err != nil {
		return fail(result, err)
	}

	var episodeTitle string
	if query.Type == MediaTV && seriesID != "" {
		episodeTitle, err = s.episodeTitle(ctx, seriesID, query)
		if err != nil {
			return fail(result, err)
		}

		if lang := s.cfg.Parameters.TranslateLanguage; lang != "" {
			// TranslationUnavailable falls back silently to the
			// canonical title
			if translated, terr := s.resolver.FetchTranslation(ctx, seriesID, lang); terr == nil && translated != "" {
				title = translated
			}
		}
	}

	// User overrides take final precedence over provider data, including
	// translations; suffix-the runs last
	title = ApplyNameOverride(title, s.nameOverrides(query.Type))
	title = SuffixThe(title, s.cfg.Parameters.SuffixThe)
	result.Title = title

	dest, err := s.destination(query, title, year, episodeTitle, name, ext)
	if err != nil {
		return fail(result, err)
	}
	result.Destination = dest

	decision, err := DecidePlacement(dest, s.opts.Replace)
	if err != nil {
		return fail(result, err)
	}

	if decision == DecisionSkip {
		result.Outcome = OutcomeSkipped
		result.Reason = "destination exists and replace is disabled"
		return result
	}

	if s.opts.DryRun {
		result.Outcome = OutcomePlanned
		result.Reason = fmt.Sprintf("would %s (%s)", decision, s.opts.Action)
		return result
	}

	_, err = transfer.Place(transfer.Request{
		Source:         srcPath,
		Destination:    dest,
		Action:         s.opts.Action,
		RemoveExisting: decision == DecisionReplace,
		InfoFile:       s.opts.InfoFile,
		Shasum:         s.opts.Shasum,
		Chown:          s.opts.Chown,
		Owner:          s.opts.Owner,
		Group:          s.opts.Group,
		FileMode:       s.opts.FileMode,
		DirMode:        s.opts.DirMode,
	})
	if err != nil {
		return fail(result, err)
	}

	if decision == DecisionReplace {
		result.Outcome = OutcomeReplaced
	} else {
		result.Outcome = OutcomeCreated
	}
	return result
}

// resolve turns the search query into a title, year and series identifier,
// consulting the local fallback when the provider has nothing
func (s *Sorter) resolve(ctx context.Context, searchQuery string, query ParsedQuery) (title, year, seriesID string, err error) {
	cand, err := s.resolver.SearchTitle(ctx, searchQuery, string(query.Type), query.Year)
	if err == nil {
		year = cand.Year
		if year == "" {
			year = query.Year
		}
		return cand.Title, year, cand.ID, nil
	}

	if s.cfg.Parameters.FallbackLocalTitle && len(query.TitleTokens) > 0 {
		// Movies need a year for the destination form; TV needs none
		if query.Type == MediaTV || query.Year != "" {
			return LocalFallbackTitle(query.TitleTokens), query.Year, "", nil
		}
	}

	if errors.Is(err, metadata.ErrNotFound) {
		return "", "", "", fmt.Errorf("%w: %q", ErrLookupNotFound, searchQuery)
	}
	return "", "", "", fmt.Errorf("%w: %v", ErrLookupTransport, err)
}

// episodeTitle fetches the episode name; a missing episode record is fine,
// a transport failure is not
func (s *Sorter) episodeTitle(ctx context.Context, seriesID string, query ParsedQuery) (string, error) {
	ep, err := s.resolver.FetchEpisode(ctx, seriesID, query.Season, query.Episode)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrLookupTransport, err)
	}
	return ep.Title, nil
}

// destination builds the final path for the classified file
func (s *Sorter) destination(query ParsedQuery, title, year, episodeTitle, sourceName, ext string) (string, error) {
	if query.Type == MediaTV {
		if s.opts.TVDest == "" {
			return "", ErrNoDestination
		}
		return TVDestination(s.opts.TVDest, title, query.Season, query.Episode, episodeTitle, ext), nil
	}

	if s.opts.MoviesDest == "" {
		return "", ErrNoDestination
	}

	if year == "" {
		year = "0000"
	}

	// TV episodes never receive a metainfo block; movies only, and only
	// when tagging is enabled
	var tags []string
	if s.opts.TagMeta {
		tags = BuildMetainfo(sourceName, s.rules)
	}

	return MovieDestination(s.opts.MoviesDest, title, year, tags, ext), nil
}

// nameOverrides returns the override table scoped to one media type
func (s *Sorter) nameOverrides(mt MediaType) map[string]string {
	if mt == MediaTV {
		return s.cfg.Overrides.NameTV
	}
	return s.cfg.Overrides.NameMV
}

func fail(result FileResult, err error) FileResult {
	result.Outcome = OutcomeFailed
	result.Reason = err.Error()
	return result
}
