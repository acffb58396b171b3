package worker

import "sync"

// DefaultEventHistory is the number of events a MemoryPublisher keeps when
// created with a non-positive limit.
const DefaultEventHistory = 1024

// MemoryPublisher keeps the most recent worker events, oldest first.
type MemoryPublisher struct {
	mu    sync.Mutex
	limit int
	ring  []Event
	next  int // slot written by the next Publish once ring is full
}

func NewMemoryPublisher() *MemoryPublisher { return NewBoundedPublisher(DefaultEventHistory) }

// NewBoundedPublisher returns a publisher that retains at most limit events.
func NewBoundedPublisher(limit int) *MemoryPublisher {
	if limit <= 0 {
		limit = DefaultEventHistory
	}
	return &MemoryPublisher{limit: limit}
}

func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ring) < p.limit {
		p.ring = append(p.ring, e)
		return
	}
	p.ring[p.next] = e
	p.next = (p.next + 1) % p.limit
}

// Events returns the retained events of every kind when kinds is empty, or
// of the given kinds only.
func (p *MemoryPublisher) Events(kinds ...string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, 0, len(p.ring))
	for i := range p.ring {
		e := p.ring[(p.next+i)%len(p.ring)]
		if matchKind(e.Kind, kinds) {
			out = append(out, e)
		}
	}
	return out
}

// Names returns the event names in publication order.
func (p *MemoryPublisher) Names(kinds ...string) []string {
	events := p.Events(kinds...)
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Name
	}
	return out
}

func matchKind(kind string, kinds []string) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
