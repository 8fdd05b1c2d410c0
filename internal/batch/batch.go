// Package batch runs multiple downloads with bounded concurrency. Individual
// task failures are recorded, not propagated; the batch always runs to
// completion unless the context is canceled.
package batch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doodget/doodozer/internal/logger"
	"github.com/doodget/doodozer/types"
)

// Fetcher downloads a single URL. The root doodozer.Downloader satisfies this
// through a small adapter in the CLI.
type Fetcher interface {
	Download(ctx context.Context, url string) (*types.VideoInfo, error)
}

// Options configures a batch run.
type Options struct {
	Concurrency int
	// Factory builds a Fetcher per worker so progress callbacks and HTTP
	// state are not shared across goroutines.
	Factory func() Fetcher
	// OnUpdate, if set, is invoked after every task state change.
	OnUpdate func(*Task)
}

// Result summarizes a finished batch.
type Result struct {
	Tasks     []*Task
	Completed int
	Failed    int
}

// Run downloads all URLs and returns per-task outcomes. The returned error is
// non-nil only when the context is canceled before all tasks finish.
func Run(ctx context.Context, urls []string, opts Options) (*Result, error) {
	log := logger.WithComponent(logger.ComponentBatch)

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	tasks := make([]*Task, 0, len(urls))
	for _, u := range urls {
		tasks = append(tasks, NewTask(u))
	}

	var mu sync.Mutex
	notify := func(t *Task) {
		if opts.OnUpdate != nil {
			opts.OnUpdate(t)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			mu.Lock()
			task.Status = TaskStatusDownloading
			task.StartedAt = time.Now()
			mu.Unlock()
			notify(task)

			log.Info("downloading", "id", task.ID, "url", task.URL)
			info, err := opts.Factory().Download(gctx, task.URL)

			mu.Lock()
			task.FinishedAt = time.Now()
			if err != nil {
				task.Status = TaskStatusError
				task.LastError = err.Error()
			} else {
				task.Status = TaskStatusCompleted
				task.Title = info.Title
			}
			mu.Unlock()
			notify(task)

			if err != nil {
				log.Error("task failed", "id", task.ID, "err", err)
				// Task errors do not abort the batch
				return gctx.Err()
			}
			log.Info("task completed", "id", task.ID, "title", info.Title)
			return nil
		})
	}

	err := g.Wait()

	res := &Result{Tasks: tasks}
	for _, t := range tasks {
		switch t.Status {
		case TaskStatusCompleted:
			res.Completed++
		case TaskStatusError:
			res.Failed++
		}
	}
	return res, err
}
