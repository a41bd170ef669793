package wizard

import "context"

// FetchFunc computes a step's enrichment.  It reports failures through its
// own logging and always returns usable, possibly empty, Fields.
type FetchFunc func(ctx context.Context) Fields

// CacheObserver is told about every lookup.
type CacheObserver interface {
	ObserveStepCache(step string, hit bool)
}

// StepCache memoizes enrichment per step for one session.  An entry, once
// stored, is returned unchanged for the life of the session; empty results
// are stored too so a failed fetch is not retried on the next visit.
type StepCache struct {
	entries  map[Step]Fields
	observer CacheObserver
}

// NewStepCache wraps entries, which it reads and writes in place.
func NewStepCache(entries map[Step]Fields, observer CacheObserver) *StepCache {
	if entries == nil {
		entries = make(map[Step]Fields)
	}
	return &StepCache{entries: entries, observer: observer}
}

// GetOrFetch returns the entry for step, running fetch exactly once when
// there is none.  The boolean reports a hit.
func (c *StepCache) GetOrFetch(ctx context.Context, step Step, fetch FetchFunc) (Fields, bool) {
	if f, ok := c.entries[step]; ok {
		c.observe(step, true)
		return f.Clone(), true
	}
	f := fetch(ctx)
	if f == nil {
		f = Fields{}
	}
	c.entries[step] = f.Clone()
	c.observe(step, false)
	return f, false
}

// Entries exposes the underlying map.
func (c *StepCache) Entries() map[Step]Fields { return c.entries }

func (c *StepCache) observe(step Step, hit bool) {
	if c.observer != nil {
		c.observer.ObserveStepCache(string(step), hit)
	}
}

//Personal.AI order the ending
