// Package worker executa trabalho concorrente com limite de goroutines.
// O scan de cada ciclo dispara uma chamada de listagem por célula
// (serviço, região); o pool garante que no máximo N chamadas rodem ao
// mesmo tempo, preservando a ordem dos resultados.
package worker

import (
	"context"
	"runtime"
	"sync"
)

// Pool limits the number of goroutines executing work simultaneously,
// using a semaphore channel.
type Pool struct {
	concurrency int
	sem         chan struct{}
}

// NewPool creates a pool with the given concurrency limit. Values <= 0
// default to the number of CPUs.
func NewPool(concurrency int) *Pool {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Pool{
		concurrency: concurrency,
		sem:         make(chan struct{}, concurrency),
	}
}

// Concurrency returns the maximum number of concurrent workers.
func (p *Pool) Concurrency() int {
	return p.concurrency
}

// Job is a unit of work with typed input and output.
type Job[T any, R any] struct {
	Input   T
	Execute func(context.Context, T) (R, error)
}

// Result wraps one job output. Index is the job's position in the input
// slice, so results line up with their jobs.
type Result[R any] struct {
	Value R
	Err   error
	Index int
}

// Run executes jobs with bounded concurrency, preserving input order in
// the result slice. A canceled context fails the jobs that have not
// started yet with ctx.Err().
func Run[T, R any](ctx context.Context, pool *Pool, jobs []Job[T, R]) []Result[R] {
	if len(jobs) == 0 {
		return nil
	}

	results := make([]Result[R], len(jobs))
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, j Job[T, R]) {
			defer wg.Done()

			select {
			case pool.sem <- struct{}{}:
				defer func() { <-pool.sem }()
			case <-ctx.Done():
				results[idx] = Result[R]{Err: ctx.Err(), Index: idx}
				return
			}

			select {
			case <-ctx.Done():
				results[idx] = Result[R]{Err: ctx.Err(), Index: idx}
				return
			default:
			}

			value, err := j.Execute(ctx, j.Input)
			results[idx] = Result[R]{Value: value, Err: err, Index: idx}
		}(i, job)
	}

	wg.Wait()
	return results
}

// RunFunc applies one function to every input through the pool.
func RunFunc[T, R any](
	ctx context.Context,
	pool *Pool,
	inputs []T,
	fn func(context.Context, T) (R, error),
) []Result[R] {
	jobs := make([]Job[T, R], len(inputs))
	for i, input := range inputs {
		jobs[i] = Job[T, R]{Input: input, Execute: fn}
	}
	return Run(ctx, pool, jobs)
}
