package workers

import (
	"context"
	"fmt"

	"github.com/MKhiriev/lks-registry/internal/logger"
	"golang.org/x/sync/errgroup"
)

type namedWorker struct {
	name   string
	worker Worker
	// primary workers end the whole group when they return.
	primary bool
}

type Workers struct {
	workers []namedWorker
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger) *Workers {
	return &Workers{logger: logger}
}

// Add registers a worker that runs until ctx is cancelled or it fails.
func (w *Workers) Add(name string, worker Worker) *Workers {
	w.workers = append(w.workers, namedWorker{name: name, worker: worker})
	return w
}

// AddPrimary registers a worker whose return, with or without an error,
// stops every other worker. The interactive front end is such a worker.
func (w *Workers) AddPrimary(name string, worker Worker) *Workers {
	w.workers = append(w.workers, namedWorker{name: name, worker: worker, primary: true})
	return w
}

// Run starts every worker and blocks until all of them returned. It returns
// the first error.
func (w *Workers) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, nw := range w.workers {
		g.Go(func() error {
			if nw.primary {
				defer cancel()
			}

			w.logger.Debug().Str("worker", nw.name).Msg("worker started")
			err := nw.worker.Run(ctx)
			w.logger.Debug().Str("worker", nw.name).Err(err).Msg("worker stopped")

			if err != nil {
				return fmt.Errorf("worker %s: %w", nw.name, err)
			}
			return nil
		})
	}

	return g.Wait()
}
