package catalog

import "context"

// Task is a pull running in the background.
type Task struct {
	done   chan struct{}
	cancel context.CancelFunc
	report *Report
	err    error
}

// Start runs Pull in a new goroutine and returns immediately.
func (s *Syncer) Start(ctx context.Context, catalogURL string) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer cancel()
		t.report, t.err = s.Pull(ctx, catalogURL)
		close(t.done)
	}()
	return t
}

// Done is closed when the pull has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel asks the pull to stop. Entries not yet started are skipped.
func (t *Task) Cancel() {
	t.cancel()
}

// Wait blocks until the pull has finished and returns its result.
func (t *Task) Wait() (*Report, error) {
	<-t.done
	return t.report, t.err
}
