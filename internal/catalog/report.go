package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// Failure records one entry that could not be synced.
type Failure struct {
	// Path is the catalog path of the entry.
	Path string `json:"path"`

	// Reason is the error message.
	Reason string `json:"reason"`

	// Kind classifies the error, see errors.Kind.
	Kind string `json:"kind"`
}

// Report is the outcome of one pull. It is safe for concurrent use while the
// pull runs and read-only once Pull returns.
type Report struct {
	RunID     string    `json:"run_id"`
	URL       string    `json:"url"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
	Listed    int       `json:"listed"`
	Succeeded []string  `json:"succeeded"`
	Failed    []Failure `json:"failed"`
	Skipped   []string  `json:"skipped"`

	mu sync.Mutex
}

func newReport(catalogURL string) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		URL:       catalogURL,
		Started:   time.Now(),
		Succeeded: []string{},
		Failed:    []Failure{},
		Skipped:   []string{},
	}
}

func (r *Report) succeed(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Succeeded = append(r.Succeeded, path)
}

func (r *Report) fail(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failed = append(r.Failed, Failure{Path: path, Reason: err.Error(), Kind: errors.Kind(err)})
}

func (r *Report) skip(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = append(r.Skipped, path)
}

// finish stamps the end time and sorts every list by path.
func (r *Report) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Finished = time.Now()
	slices.Sort(r.Succeeded)
	slices.Sort(r.Skipped)
	slices.SortFunc(r.Failed, func(a, b Failure) int {
		return strings.Compare(a.Path, b.Path)
	})
}

// Completed returns how many entries have an outcome so far.
func (r *Report) Completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Succeeded) + len(r.Failed) + len(r.Skipped)
}

// Duration returns how long the pull took.
func (r *Report) Duration() time.Duration {
	if r.Finished.IsZero() {
		return time.Since(r.Started)
	}
	return r.Finished.Sub(r.Started)
}

// OK reports whether every listed entry was synced.
func (r *Report) OK() bool {
	return len(r.Failed) == 0 && len(r.Skipped) == 0
}

// Summary returns a one-line description such as
// "4 succeeded, 1 failed, 0 skipped".
func (r *Report) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed, %d skipped",
		len(r.Succeeded), len(r.Failed), len(r.Skipped))
}
