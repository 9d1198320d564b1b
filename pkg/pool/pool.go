package pool

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// task is used to trigger our latent workers to do something.
type task struct {
	// This counter indicates the number of results that still need to be produced.
	ctr *int64
	// This is the index we evaluate our function at
	i int
	f func(int) interface{}
	// This is the array where we put results
	results []interface{}
}

// worker starts up a new worker, listening to tasks, and producing results
func worker(tasks <-chan task, ctrChanged chan<- struct{}) {
	for t := range tasks {
		t.results[t.i] = t.f(t.i)
		atomic.AddInt64(t.ctr, -1)
		ctrChanged <- struct{}{}
	}
}

// Pool represents a pool of workers, used for parallelizing the ants of a colony.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current goroutine instead.
//
// By creating a pool, you avoid the overhead of spinning up goroutines for
// every iteration of a run.
type Pool struct {
	// The common channel used to send tasks to the workers.
	//
	// This effectively makes a work stealing pool.
	tasks chan task
	// The channel used to signal a finished task
	ctrChanged chan struct{}
	// This holds the number of workers we've created
	workerCount int
	// Parallelize is not reentrant across callers sharing ctrChanged
	mtx sync.Mutex
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	var p Pool

	if count <= 0 {
		count = runtime.NumCPU()
	}

	p.tasks = make(chan task)
	p.workerCount = count
	p.ctrChanged = make(chan struct{})

	for i := 0; i < count; i++ {
		go worker(p.tasks, p.ctrChanged)
	}

	return &p
}

// TearDown cleanly tears down a pool, closing channels, etc.
func (p *Pool) TearDown() {
	close(p.tasks)
}

// Workers returns the number of workers, or 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workerCount
}

// Parallelize calls a function count times, passing in indices from 0..count-1.
//
// The result will be a slice containing [f(0), f(1), ..., f(count - 1)].
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	results := make([]interface{}, count)
	if p == nil {
		for i := range results {
			results[i] = f(i)
		}
		return results
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	ctr := int64(count)
	next := 0
	for next < count {
		t := task{
			i:       next,
			ctr:     &ctr,
			f:       f,
			results: results,
		}
		// We won't be able to send all the tasks without blocking, so we make
		// sure to interleave picking off the results of workers to free them up
		// to receive our tasks
		select {
		case p.tasks <- t:
			next++
		case <-p.ctrChanged:
		}
	}
	for atomic.LoadInt64(&ctr) > 0 {
		<-p.ctrChanged
	}

	return results
}

// Map is a typed wrapper around Parallelize.
func Map[T any](p *Pool, count int, f func(int) T) []T {
	raw := p.Parallelize(count, func(i int) interface{} { return f(i) })
	out := make([]T, count)
	for i, r := range raw {
		if r != nil {
			out[i] = r.(T)
		}
	}
	return out
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This type implements io.Reader, returning the same output.
//
// This means acquiring a lock whenever a read happens, so be aware of that
// for performance or concurrency reasons.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	// Intentionally not initializing m, since the zero value is ok
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader
//
// The behavior is to return the same output as the underlying reader. The difference
// is that it's safe to call this function concurrently.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
