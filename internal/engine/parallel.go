package engine

import (
	"context"
	"sync"
)

// runParallel drains the frontier with opts.Workers goroutines. Relaxations
// run outside the lock; frontier, incumbent and statistics updates run under
// it, and a popped node is re-checked against the latest incumbent.
func (e *Engine) runParallel(ctx context.Context) (*Outcome, error) {
	var (
		cond     = sync.NewCond(&e.mu)
		active   int
		stop     string
		firstErr error
		wg       sync.WaitGroup
	)

	worker := func() {
		defer wg.Done()
		e.mu.Lock()
		defer e.mu.Unlock()
		for {
			for e.front.Len() == 0 && active > 0 && stop == "" && firstErr == nil {
				cond.Wait()
			}
			if stop != "" || firstErr != nil || e.front.Len() == 0 {
				cond.Broadcast()
				return
			}
			if reason := e.exhausted(ctx); reason != "" {
				stop = reason
				cond.Broadcast()
				return
			}

			nd := e.front.pop()
			if e.dominated(nd.bound) {
				e.stats.Pruned++
				continue
			}
			down, up := e.branch(nd)
			active++
			for _, c := range [...]*node{down, up} {
				e.mu.Unlock()
				r, err := e.relax(c)
				e.mu.Lock()
				if err == nil {
					err = e.classify(c, r)
				}
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					break
				}
			}
			active--
			cond.Broadcast()
		}
	}

	wg.Add(e.opts.Workers)
	for w := 0; w < e.opts.Workers; w++ {
		go worker()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return e.finish(stop), nil
}
