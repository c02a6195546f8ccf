package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/anybirth-inc/josetsu/internal/api/metrics"
	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// GeocodeRefresher executes one queued coordinate refresh.
type GeocodeRefresher interface {
	ApplyGeocode(ctx context.Context, job ports.GeocodeJob)
}

// Dispatcher routes geocode refresh jobs to a fixed set of workers using
// consistent hashing on the draft id, so refreshes for one draft always run
// in the order they were queued.
type Dispatcher struct {
	workers   []chan ports.GeocodeJob
	refresher GeocodeRefresher
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, refresher GeocodeRefresher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.GeocodeJob, numWorkers),
		refresher: refresher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.GeocodeJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a refresh job to the worker responsible for its draft.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.GeocodeJob) {
	idx := d.shardIndex(job.DraftID)
	d.workers[idx] <- job
	metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a draft id deterministically to a worker index.
func (d *Dispatcher) shardIndex(draftID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(draftID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.GeocodeJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			d.refresher.ApplyGeocode(ctx, job)
			metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
