package search_serv

import (
	"sort"
	"sync"
	"time"
)

// Stats contains runtime stats for every kind and operation seen so far.
type Stats struct {
	Started    time.Time  `json:"started"`
	Operations []*OpStats `json:"operations"`
}

// OpStats holds counters for one operation on one kind.
type OpStats struct {
	Kind                  Kind          `json:"kind"`
	Op                    string        `json:"op"`
	NumRequests           int           `json:"num_requests"`
	NumErrors             int           `json:"num_errors"`
	LastError             string        `json:"last_error,omitempty"`
	ProcessingTime        time.Duration `json:"processing_time"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
	MinProcessingTime     time.Duration `json:"min_processing_time,omitempty"`
	MaxProcessingTime     time.Duration `json:"max_processing_time,omitempty"`
	LastRequestTime       time.Time     `json:"last_request_time,omitempty"`
}

type statKey struct {
	kind Kind
	op   string
}

type statsBook struct {
	mu      sync.Mutex
	started time.Time
	ops     map[statKey]*OpStats
}

func newStatsBook() *statsBook {
	return &statsBook{started: time.Now().UTC(), ops: make(map[statKey]*OpStats)}
}

func (b *statsBook) record(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := statKey{ev.Kind, ev.Op}
	st, ok := b.ops[k]
	if !ok {
		st = &OpStats{Kind: ev.Kind, Op: ev.Op}
		b.ops[k] = st
	}
	st.NumRequests++
	if ev.Error != "" {
		st.NumErrors++
		st.LastError = ev.Error
	}
	st.ProcessingTime += ev.Took
	st.AverageProcessingTime = st.ProcessingTime / time.Duration(st.NumRequests)
	if st.MinProcessingTime == 0 || ev.Took < st.MinProcessingTime {
		st.MinProcessingTime = ev.Took
	}
	if ev.Took > st.MaxProcessingTime {
		st.MaxProcessingTime = ev.Took
	}
	st.LastRequestTime = ev.At
}

// Stats returns a copy of the counters, ordered by kind then operation.
func (s *Service) Stats() Stats {
	b := s.stats
	b.mu.Lock()
	defer b.mu.Unlock()

	out := Stats{Started: b.started, Operations: make([]*OpStats, 0, len(b.ops))}
	for _, st := range b.ops {
		cp := *st
		out.Operations = append(out.Operations, &cp)
	}
	sort.Slice(out.Operations, func(i, j int) bool {
		a, c := out.Operations[i], out.Operations[j]
		if a.Kind != c.Kind {
			return a.Kind < c.Kind
		}
		return a.Op < c.Op
	})
	return out
}

// ResetStats clears all counters and restarts the clock.
func (s *Service) ResetStats() {
	b := s.stats
	b.mu.Lock()
	b.ops = make(map[statKey]*OpStats)
	b.started = time.Now().UTC()
	b.mu.Unlock()
	s.log.Info().Msg("stats reset")
}
