package pvss

import "golang.org/x/sync/errgroup"

// forEach runs fn for every index in [0, n). With Concurrency > 1 the calls
// fan out on an errgroup; the first error is returned once all started calls
// have finished.
func (p *Parameters) forEach(n int, fn func(i int) error) error {
	if p.Concurrency < 2 || n < 2 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(p.Concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
