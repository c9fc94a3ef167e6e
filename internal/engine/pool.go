package engine

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lexpierce/groppy/internal/output"
)

// Engine drives a fixed pool of workers over a queue of repository paths.
// The queue is the sole work-distribution point: it is filled once, closed,
// and drained until empty. Worker failures are outcome values, so the pool
// itself never fails mid-run.
type Engine struct {
	Workers  int
	Remote   string
	Update   UpdateFunc
	Reporter output.Reporter
	Now      func() time.Time
}

func New(workers int, remote string, reporter output.Reporter) *Engine {
	return &Engine{
		Workers:  workers,
		Remote:   remote,
		Update:   UpdateRepo,
		Reporter: reporter,
		Now:      time.Now,
	}
}

// Run processes every repository and blocks until all workers have joined,
// so the returned counters are fully settled.
func (e *Engine) Run(repos []string) (StatsSnapshot, error) {
	if e.Workers < 1 {
		return StatsSnapshot{}, fmt.Errorf("worker count must be at least 1, got %d", e.Workers)
	}
	if e.Update == nil {
		e.Update = UpdateRepo
	}
	if e.Now == nil {
		e.Now = time.Now
	}

	stats := NewStats(len(repos))

	// Sized to the full task count so seeding never blocks.
	tasks := make(chan string, len(repos))
	for _, repo := range repos {
		tasks <- repo
	}
	close(tasks)

	_ = e.Reporter.Emit(output.Event{
		Timestamp: e.Now(),
		Level:     output.LevelInfo,
		Event:     output.EventUpdateStarted,
		Message:   fmt.Sprintf("Updating repositories… (0/%d)", stats.Total()),
		Details: map[string]any{
			"total":   stats.Total(),
			"workers": e.Workers,
		},
	})

	var group errgroup.Group
	for i := 0; i < e.Workers; i++ {
		group.Go(func() error {
			for path := range tasks {
				checked := stats.IncChecked()
				e.Reporter.Progress(checked, stats.Total())
				e.report(e.Update(path, e.Remote), stats)
			}
			return nil
		})
	}
	_ = group.Wait()

	snapshot := stats.Snapshot()
	_ = e.Reporter.Emit(output.Event{
		Timestamp: e.Now(),
		Level:     output.LevelInfo,
		Event:     output.EventUpdateFinished,
		Message:   fmt.Sprintf("Checked: %d, Updated: %d, Unclean: %d", snapshot.Checked, snapshot.Updated, snapshot.Unclean),
		Details: map[string]any{
			"checked": snapshot.Checked,
			"updated": snapshot.Updated,
			"unclean": snapshot.Unclean,
			"total":   snapshot.Total,
		},
	})

	return snapshot, nil
}

func (e *Engine) report(outcome Outcome, stats *Stats) {
	switch outcome.Kind {
	case OutcomeUpdated:
		stats.IncUpdated()
		_ = e.Reporter.Emit(output.Event{
			Timestamp: e.Now(),
			Level:     output.LevelInfo,
			Event:     output.EventRepoUpdated,
			Repo:      outcome.Repo,
			Message:   fmt.Sprintf("Updated: %s (%d files changed)", outcome.Repo, outcome.FilesChanged),
			Details: map[string]any{
				"files_changed": outcome.FilesChanged,
			},
		})
	case OutcomeUnclean:
		stats.IncUnclean()
		_ = e.Reporter.Emit(output.Event{
			Timestamp: e.Now(),
			Level:     output.LevelWarn,
			Event:     output.EventRepoUnclean,
			Repo:      outcome.Repo,
			Message:   fmt.Sprintf("Repository not clean: %s", outcome.Repo),
		})
	case OutcomeUpToDate:
		_ = e.Reporter.Emit(output.Event{
			Timestamp: e.Now(),
			Level:     output.LevelInfo,
			Event:     output.EventRepoSkipped,
			Repo:      outcome.Repo,
			Message:   fmt.Sprintf("Up to date: %s", outcome.Repo),
			Details:   map[string]any{"reason": "up_to_date"},
		})
	case OutcomeNoUpstream:
		_ = e.Reporter.Emit(output.Event{
			Timestamp: e.Now(),
			Level:     output.LevelInfo,
			Event:     output.EventRepoSkipped,
			Repo:      outcome.Repo,
			Message:   fmt.Sprintf("No upstream: %s", outcome.Repo),
			Details:   map[string]any{"reason": "no_upstream"},
		})
	case OutcomeError:
		details := map[string]any{}
		var stepErr *StepError
		if errors.As(outcome.Err, &stepErr) {
			details["step"] = string(stepErr.Step)
		}
		_ = e.Reporter.Emit(output.Event{
			Timestamp: e.Now(),
			Level:     output.LevelError,
			Event:     output.EventRepoFailed,
			Repo:      outcome.Repo,
			Message:   fmt.Sprintf("Error updating %s: %v", outcome.Repo, outcome.Err),
			Details:   details,
		})
	}
}
