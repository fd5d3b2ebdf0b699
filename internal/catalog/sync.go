package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/codec"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/jsonutil"
	"github.com/thoreinstein/tnalias/internal/library"
	"github.com/thoreinstein/tnalias/internal/logging"
	"github.com/thoreinstein/tnalias/internal/paths"
)

// Defaults for a Syncer.
const (
	DefaultPrefix  = "library/"
	DefaultWorkers = 4
	DefaultTimeout = 2 * time.Minute
)

// LockFile is the name of the lock file kept in the cache directory.
const LockFile = ".sync.lock"

// ErrSyncInProgress indicates another pull holds the cache lock.
var ErrSyncInProgress = errors.New("another library sync is in progress")

// ErrEntryCollision marks a catalog entry whose cache name is already taken
// by another entry of the same listing, such as a.txt next to a.json.
var ErrEntryCollision = errors.New("catalog entries share a cache name")

// EventType identifies a progress event.
type EventType int

const (
	// EventListed is sent once the listing is filtered; Total is set.
	EventListed EventType = iota
	// EventSucceeded is sent when an entry was written to the cache.
	EventSucceeded
	// EventFailed is sent when an entry could not be synced; Err is set.
	EventFailed
	// EventSkipped is sent for entries not started before cancellation.
	EventSkipped
)

// Event reports pull progress.
type Event struct {
	Type      EventType
	Path      string
	Completed int
	Total     int
	Err       error
}

// Syncer pulls the catalog into a library cache.
type Syncer struct {
	client   *Client
	cache    *library.Cache
	prefix   string
	workers  int
	timeout  time.Duration
	lockPath string
	progress func(Event)
	logger   *slog.Logger

	progressMu sync.Mutex
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithPrefix keeps only catalog paths under prefix. The prefix is removed
// from the cache entry name.
func WithPrefix(prefix string) Option {
	return func(s *Syncer) {
		s.prefix = prefix
	}
}

// WithWorkers sets how many entries are fetched at once.
func WithWorkers(n int) Option {
	return func(s *Syncer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTimeout bounds a whole pull. Zero disables the bound; each request is
// still bounded by the client.
func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithLockPath sets the lock file. Defaults to LockFile inside the cache
// directory.
func WithLockPath(p string) Option {
	return func(s *Syncer) {
		s.lockPath = p
	}
}

// WithProgress registers fn to receive progress events. Calls are
// serialized.
func WithProgress(fn func(Event)) Option {
	return func(s *Syncer) {
		s.progress = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSyncer returns a Syncer writing into cache.
func NewSyncer(client *Client, cache *library.Cache, opts ...Option) *Syncer {
	s := &Syncer{
		client:   client,
		cache:    cache,
		prefix:   DefaultPrefix,
		workers:  DefaultWorkers,
		timeout:  DefaultTimeout,
		lockPath: filepath.Join(cache.Dir(), LockFile),
		logger:   logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pull syncs every catalog entry under the prefix into the cache. The
// returned report is never nil. Per-entry failures are recorded in the
// report and do not make Pull fail; only a failed listing, a held lock or a
// lock error do. Entries not started before ctx ends are recorded as skipped.
func (s *Syncer) Pull(ctx context.Context, catalogURL string) (*Report, error) {
	report := newReport(catalogURL)
	defer report.finish()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger := s.logger.With("run", report.RunID)

	unlock, err := s.lock()
	if err != nil {
		return report, err
	}
	defer unlock()

	listed, err := s.client.ListTree(ctx, catalogURL)
	if err != nil {
		return report, errors.Wrap(err, "listing catalog")
	}

	entries := make([]Entry, 0, len(listed))
	seen := make(map[string]bool, len(listed))
	for _, e := range listed {
		if strings.HasPrefix(e.Path, s.prefix) && len(e.Path) > len(s.prefix) && !seen[e.Path] {
			seen[e.Path] = true
			entries = append(entries, e)
		}
	}
	report.Listed = len(entries)
	logger.Info("catalog listed", "url", catalogURL, "entries", len(entries), "workers", s.workers)
	s.emit(Event{Type: EventListed, Total: len(entries)})

	entries, collisions := s.claimNames(entries)
	for _, c := range collisions {
		s.record(report, logger, c.entry, c.err, false)
	}

	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, e := range entries {
		if ctx.Err() != nil {
			s.record(report, logger, e, nil, true)
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				s.record(report, logger, e, nil, true)
				return nil
			}
			s.record(report, logger, e, s.syncEntry(ctx, e), false)
			return nil
		})
	}
	// Workers never return an error.
	_ = g.Wait()

	logger.Info("catalog sync finished",
		"succeeded", len(report.Succeeded),
		"failed", len(report.Failed),
		"skipped", len(report.Skipped))

	return report, nil
}

type collision struct {
	entry Entry
	err   error
}

// claimNames keeps one entry per cache name. An entry already named .json
// wins, then the lowest path; the others are returned as collisions.
// Entries whose names cannot be computed pass through for Write to reject.
func (s *Syncer) claimNames(entries []Entry) ([]Entry, []collision) {
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b Entry) int {
		aj, bj := path.Ext(a.Path) == library.Extension, path.Ext(b.Path) == library.Extension
		if aj != bj {
			if aj {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Path, b.Path)
	})

	owner := make(map[string]string, len(ordered))
	var collisions []collision
	for _, e := range ordered {
		name, err := library.EntryName(strings.TrimPrefix(e.Path, s.prefix))
		if err != nil {
			continue
		}
		if first, taken := owner[name]; taken {
			collisions = append(collisions, collision{entry: e, err: errors.WithDetailf(
				errors.Mark(errors.Wrapf(ErrEntryCollision, "%s", e.Path), errors.ErrCacheWrite),
				"%s and %s both map to %s", first, e.Path, name)})
			continue
		}
		owner[name] = e.Path
	}
	if len(collisions) == 0 {
		return entries, nil
	}

	kept := make([]Entry, 0, len(entries)-len(collisions))
	for _, e := range entries {
		name, err := library.EntryName(strings.TrimPrefix(e.Path, s.prefix))
		if err != nil || owner[name] == e.Path {
			kept = append(kept, e)
		}
	}
	return kept, collisions
}

// syncEntry fetches, normalizes and caches one entry.
func (s *Syncer) syncEntry(ctx context.Context, e Entry) error {
	body, err := s.client.FetchBlob(ctx, e.ContentURL)
	if err != nil {
		return err
	}

	m, strategy, err := decodeEntry(body, e.Path)
	if err != nil {
		return err
	}
	s.logger.Log(ctx, logging.LevelTrace, "entry decoded", "path", e.Path, "strategy", strategy.String(), "aliases", m.Len())

	_, err = s.cache.Write(strings.TrimPrefix(e.Path, s.prefix), m)
	return err
}

// record stores the outcome of e and emits the matching event. Recording
// is serialized so events arrive with increasing Completed counts.
func (s *Syncer) record(report *Report, logger *slog.Logger, e Entry, err error, skipped bool) {
	s.progressMu.Lock()
	defer s.progressMu.Unlock()

	var ev Event
	switch {
	case skipped:
		report.skip(e.Path)
		logger.Debug("library entry skipped", "path", e.Path)
		ev = Event{Type: EventSkipped, Path: e.Path}
	case err != nil:
		report.fail(e.Path, err)
		logger.Warn("library entry failed", "path", e.Path, "kind", errors.Kind(err), "error", err)
		ev = Event{Type: EventFailed, Path: e.Path, Err: err}
	default:
		report.succeed(e.Path)
		logger.Debug("library entry synced", "path", e.Path)
		ev = Event{Type: EventSucceeded, Path: e.Path}
	}

	if s.progress != nil {
		ev.Completed = report.Completed()
		ev.Total = report.Listed
		s.progress(ev)
	}
}

func (s *Syncer) emit(ev Event) {
	if s.progress == nil {
		return
	}
	s.progressMu.Lock()
	defer s.progressMu.Unlock()
	s.progress(ev)
}

// lock takes the cache lock. The lock lives on the real filesystem even when
// the cache uses another afero.Fs.
func (s *Syncer) lock() (func(), error) {
	if s.lockPath == "" {
		return func() {}, nil
	}
	if err := paths.EnsureDir(filepath.Dir(s.lockPath), 0); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "creating lock directory"), errors.ErrCacheWrite)
	}

	fl := flock.New(s.lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "locking library cache"), errors.ErrCacheWrite)
	}
	if !ok {
		return nil, errors.WithDetailf(ErrSyncInProgress, "lock file: %s", s.lockPath)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn("releasing library lock", "path", s.lockPath, "error", err)
		}
	}, nil
}

// decodeEntry normalizes the blob payload of body. When the payload does not
// decode, body itself gets a chance: a plain alias map may define an alias
// named "content" whose value happens to be base64.
func decodeEntry(body []byte, hint string) (*alias.Map, library.Strategy, error) {
	payload := unwrapBlob(body)
	m, strategy, err := library.NormalizeWithStrategy(payload, hint)
	if err == nil || bytes.Equal(payload, body) {
		return m, strategy, err
	}
	if m, strategy, bodyErr := library.NormalizeWithStrategy(body, hint); bodyErr == nil {
		return m, strategy, nil
	}
	return nil, library.StrategyNone, err
}

// unwrapBlob returns the file bytes inside a blob response. Anything that
// is not a decodable blob, including an alias map that happens to define an
// alias named "content", is returned as is for Normalize to judge.
func unwrapBlob(body []byte) []byte {
	var content, encoding json.RawMessage
	err := jsonutil.EachMember(body, func(key string, value json.RawMessage) error {
		switch key {
		case "content":
			content = value
		case "encoding":
			encoding = value
		}
		return nil
	})
	if err != nil || content == nil {
		return body
	}

	text, err := jsonutil.StringValue(content)
	if err != nil {
		return body
	}

	if encoding != nil {
		if enc, err := jsonutil.StringValue(encoding); err == nil && enc != "" && enc != "base64" {
			return []byte(text)
		}
	}

	data, err := codec.DecodeBase64(codec.StripSpace(text))
	if err != nil {
		return body
	}
	return data
}
