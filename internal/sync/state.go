package sync

import (
	"context"

	"github.com/wesm/github-org-mirror/internal/models"
)

// A workItem is one deferred, retryable fetch operation. run performs the
// remote call off the loop goroutine and returns an apply closure that the
// loop executes to fold the result in.
type workItem struct {
	label string
	run   func(ctx context.Context) (applyFunc, error)
}

// An applyFunc integrates a completed fetch into loop state and returns
// any follow-on work. It runs on the loop goroutine, so it may touch state
// without locking.
type applyFunc func(ctx context.Context, st *state) []workItem

// state is the orchestrator's working state. Only the loop goroutine
// touches it. outstanding counts fetches dispatched but not yet folded
// back in.
type state struct {
	pending     []workItem
	failed      []workItem
	projects    []models.Project
	outstanding int
}

// enqueue appends items to the back of the pending queue
func (s *state) enqueue(items ...workItem) {
	s.pending = append(s.pending, items...)
}

// dequeue pops the oldest pending item
func (s *state) dequeue() (workItem, bool) {
	if len(s.pending) == 0 {
		return workItem{}, false
	}
	item := s.pending[0]
	s.pending = s.pending[1:]
	return item, true
}

// fail parks an item until the next retry sweep
func (s *state) fail(item workItem) {
	s.failed = append(s.failed, item)
}

// sweepFailed moves every failed item to the front of the pending queue,
// oldest failure first, and empties the failed queue. Returns how many
// items moved.
func (s *state) sweepFailed() int {
	n := len(s.failed)
	if n == 0 {
		return 0
	}
	s.pending = append(s.failed, s.pending...)
	s.failed = nil
	return n
}

// setProject folds one fetched project into the inventory, replacing any
// previous version of the same board
func (s *state) setProject(project models.Project) {
	for i := range s.projects {
		if s.projects[i].ID == project.ID {
			s.projects[i] = project
			return
		}
	}
	s.projects = append(s.projects, project)
}

// resolveColumn maps a legacy numeric column ID onto its opaque node ID
// using the column inventory from the most recent project sync
func (s *state) resolveColumn(databaseID int64) (string, bool) {
	for _, project := range s.projects {
		for _, column := range project.Columns {
			if column.DatabaseID == databaseID {
				return column.ID, true
			}
		}
	}
	return "", false
}
