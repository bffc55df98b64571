package sigbatch

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
)

// Task is one unit of work bound to a single record.
type Task struct {
	ID ID
	Do func() (Output, error)
}

// TaskResult is the captured outcome of one task, success or failure.
type TaskResult struct {
	ID     ID
	Output Output
	Err    error
}

// Dispatcher executes per-record tasks concurrently on a bounded goroutine
// pool that is reused across calls. Its sizing is a placement policy only:
// any two dispatchers produce identical results for the same tasks.
type Dispatcher struct {
	pool *ants.Pool
}

// NewDispatcher builds a dispatcher around a pool of the given size. A size
// of 0 yields a dispatcher running every task inline in the calling
// goroutine, which is handy in tests and for cheap workers.
func NewDispatcher(size int, opts ...ants.Option) (*Dispatcher, error) {
	if size == 0 {
		return &Dispatcher{}, nil
	}
	pool, err := ants.NewPool(size, opts...)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{pool: pool}, nil
}

// NewCPUDispatcher builds a dispatcher sized to GOMAXPROCS, the sensible
// placement for compute-bound workers. For workers dominated by waiting,
// build a larger pool with NewDispatcher.
func NewCPUDispatcher(opts ...ants.Option) (*Dispatcher, error) {
	return NewDispatcher(runtime.GOMAXPROCS(0), opts...)
}

// Release releases the underlying pool.
func (d *Dispatcher) Release() {
	if d != nil && d.pool != nil {
		d.pool.Release()
	}
}

// Dispatch runs every task and returns their captured results in submission
// order, regardless of completion order. A panicking or failing task never
// cancels its siblings; the call blocks until all tasks settled. Dispatch
// itself never fails: use Collect to turn captured failures into an error.
func (d *Dispatcher) Dispatch(tasks []Task) []TaskResult {
	results := make([]TaskResult, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		i, task := i, task
		wg.Add(1)
		run := func() {
			defer wg.Done()
			results[i] = runTask(task) // index-disjoint writes, no locking needed
		}
		if d == nil || d.pool == nil {
			run()
			continue
		}
		if err := d.pool.Submit(run); err != nil {
			// Submit only fails on a released pool; surface it as the task's failure.
			results[i] = TaskResult{ID: task.ID, Err: err}
			wg.Done()
		}
	}
	wg.Wait()

	return results
}

func runTask(task Task) (result TaskResult) {
	result.ID = task.ID
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("panic: %v", r)
		}
	}()
	result.Output, result.Err = task.Do()
	return result
}

// Collect splits captured results into ordered outputs and an aggregated
// *DispatchError listing every failing record with its cause, nil when all
// tasks succeeded. Successful results stay independently recoverable from
// the result list even when siblings failed.
func Collect(results []TaskResult) ([]Output, error) {
	failed := lo.FilterMap(results, func(r TaskResult, _ int) (TaskError, bool) {
		return TaskError{ID: r.ID, Err: r.Err}, r.Err != nil
	})
	if len(failed) > 0 {
		return nil, &DispatchError{Tasks: failed}
	}
	return lo.Map(results, func(r TaskResult, _ int) Output { return r.Output }), nil
}
