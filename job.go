package qsearch

// Job is one unit of work for the pool, a batch of measurement trials in practice.
type Job struct {
	ID string
	Fn func() (any, error)
}
