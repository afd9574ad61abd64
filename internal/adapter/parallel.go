package adapter

import (
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// WorkItem names one document to read.
type WorkItem struct {
	Seq  int
	Path string
}

// WorkResult holds the outcome of reading one document.
type WorkResult struct {
	Seq  int
	Path string
	Set  *CurationSet
	Err  error
}

// ParallelRead reads documents using a pool of workers. Each document gets its
// own parse state. Results arrive in completion order; use OrderedCollect to
// consume them in sequence-number order. If workers is 0, runtime.NumCPU() is used.
func (a *Adapter) ParallelRead(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				cs, err := a.ReadFile(item.Path)
				if err != nil {
					a.logger.Warn("read failed", zap.String("path", item.Path), zap.Error(err))
				}
				results <- WorkResult{
					Seq:  item.Seq,
					Path: item.Path,
					Set:  cs,
					Err:  err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Items turns a list of paths into a closed channel of work items numbered in order.
func Items(paths []string) <-chan WorkItem {
	ch := make(chan WorkItem, len(paths))
	for i, p := range paths {
		ch <- WorkItem{Seq: i, Path: p}
	}
	close(ch)
	return ch
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results wait in a pending map until their turn.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
