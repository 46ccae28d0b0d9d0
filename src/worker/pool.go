package worker

import (
	"log"
	"sync"

	"screen-region-capture/src/geometry"
	"screen-region-capture/src/screenshot"
)

// Saver persists one rectangle of a snapshot. Implemented by storage.Store.
type Saver interface {
	Save(snap *screenshot.Snapshot, rect geometry.Rect, timestamp int64) (string, error)
}

// Result is delivered to the callback when a save job finishes.
type Result struct {
	Path string
	Err  error
}

// ResultCallback is invoked on save completion (from a worker goroutine).
// The event loop passes a closure that posts back into the loop safely.
type ResultCallback func(Result)

// Pool is a fixed-size save worker pool with a 1-slot input queue (strict
// back-pressure): a second save submitted while one is queued is refused so
// a slow disk can never stall the frame loop.
type Pool struct {
	saver Saver
	jobs  chan job
	wg    sync.WaitGroup
}

type job struct {
	snap      *screenshot.Snapshot
	rect      geometry.Rect
	timestamp int64
	cb        ResultCallback
}

// New creates a worker pool. Size defaults to 1 when size<=0; saving is
// disk-bound and serialized by the 1-slot queue anyway.
func New(size int, saver Saver) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{saver: saver, jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				log.Printf("Worker: saving %dx%d at (%d,%d)", j.rect.Width, j.rect.Height, j.rect.X, j.rect.Y)
				path, err := p.saver.Save(j.snap, j.rect, j.timestamp)
				if err != nil {
					log.Printf("Worker: save failed: %v", err)
				} else {
					log.Printf("Worker: saved %s", path)
				}
				j.cb(Result{Path: path, Err: err})
			}
		}()
	}
}

// Submit enqueues a save job if the single-slot queue is free. Returns false
// if the job was dropped.
func (p *Pool) Submit(snap *screenshot.Snapshot, rect geometry.Rect, timestamp int64, cb ResultCallback) bool {
	select {
	case p.jobs <- job{snap: snap, rect: rect, timestamp: timestamp, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
