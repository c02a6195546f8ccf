package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/anybirth-inc/josetsu/internal/core/ports"
)

type recordingRefresher struct {
	mu   sync.Mutex
	jobs []ports.GeocodeJob
	done chan struct{}
	want int
}

func newRecordingRefresher(want int) *recordingRefresher {
	return &recordingRefresher{done: make(chan struct{}), want: want}
}

func (r *recordingRefresher) ApplyGeocode(_ context.Context, job ports.GeocodeJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	if len(r.jobs) == r.want {
		close(r.done)
	}
}

func (r *recordingRefresher) wait(t *testing.T) []ports.GeocodeJob {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %d jobs", r.want)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.GeocodeJob(nil), r.jobs...)
}

func TestDispatcher_DeliversAllJobs(t *testing.T) {
	refresher := newRecordingRefresher(3)
	d := NewDispatcher(2, refresher, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.GeocodeJob{DraftID: "d1", Address: "a", Token: 1})
	d.Enqueue(ports.GeocodeJob{DraftID: "d2", Address: "b", Token: 1})
	d.Enqueue(ports.GeocodeJob{DraftID: "d3", Address: "c", Token: 1})

	jobs := refresher.wait(t)
	seen := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		seen[j.DraftID] = true
	}
	for _, id := range []string{"d1", "d2", "d3"} {
		if !seen[id] {
			t.Fatalf("job for %s never delivered", id)
		}
	}
}

func TestDispatcher_SameDraftKeepsOrder(t *testing.T) {
	const n = 20
	refresher := newRecordingRefresher(n)
	d := NewDispatcher(4, refresher, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 1; i <= n; i++ {
		d.Enqueue(ports.GeocodeJob{DraftID: "draft-1", Address: "addr", Token: uint64(i)})
	}

	jobs := refresher.wait(t)
	for i, j := range jobs {
		if j.Token != uint64(i+1) {
			t.Fatalf("jobs for one draft reordered: position %d has token %d", i, j.Token)
		}
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, newRecordingRefresher(0), zerolog.Nop())

	first := d.shardIndex("draft-abc")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("draft-abc"); got != first {
			t.Fatalf("shard index not deterministic: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, newRecordingRefresher(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
