package qsearch

import (
	"sync"
	"time"
)

// Value wraps a job result with its metadata.
type Value struct {
	Value     any
	Error     error
	CreatedAt time.Time
}

/*
Space holds job results until they are collected. A result may arrive before
or after somebody waits for it: Await either answers from the stored values or
parks a channel that Store fills later.
*/
type Space struct {
	mu      sync.Mutex
	values  map[string]Value
	waiting map[string][]chan Value
}

func newSpace() *Space {
	return &Space{
		values:  make(map[string]Value),
		waiting: make(map[string][]chan Value),
	}
}

// Store records the result of job id and releases everyone waiting on it.
func (s *Space) Store(id string, value any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := Value{
		Value:     value,
		Error:     err,
		CreatedAt: time.Now(),
	}
	s.values[id] = v

	for _, ch := range s.waiting[id] {
		ch <- v
		close(ch)
	}

	delete(s.waiting, id)
}

// Await returns a channel that receives the result of job id exactly once.
func (s *Space) Await(id string) chan Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Value, 1)

	if v, ok := s.values[id]; ok {
		ch <- v
		close(ch)
		return ch
	}

	s.waiting[id] = append(s.waiting[id], ch)
	return ch
}

// Forget drops a collected result so long sampling runs do not accumulate them.
func (s *Space) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, id)
}
