// Package domain contains the core mutation testing workflow and logic.
package domain

import (
	"sort"
	"sync"

	m "solmut.dev/pkg/solmut/internal/model"
)

// SurvivedSpans records byte ranges of a source file where a mutation is
// already known to survive, so later runs can skip nested mutation points.
// It is safe for concurrent use.
type SurvivedSpans struct {
	mu    sync.Mutex
	spans map[m.Span]struct{}
}

// NewSurvivedSpans creates an empty tracker.
func NewSurvivedSpans() *SurvivedSpans {
	return &SurvivedSpans{spans: make(map[m.Span]struct{})}
}

// MarkSurvived inserts the span into the set. Inserting twice has no
// additional effect.
func (s *SurvivedSpans) MarkSurvived(span m.Span) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spans[span] = struct{}{}
}

// ShouldSkip reports whether span is exactly stored or enclosed by a stored
// span. Partial overlap never skips.
func (s *SurvivedSpans) ShouldSkip(span m.Span) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spans[span]; ok {
		return true
	}

	for parent := range s.spans {
		if parent == span {
			continue
		}

		if parent.Contains(span) {
			return true
		}
	}

	return false
}

// Len returns the number of stored spans.
func (s *SurvivedSpans) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.spans)
}

// Spans returns the stored spans ordered by (Lo, Hi) for persistence.
func (s *SurvivedSpans) Spans() []m.Span {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]m.Span, 0, len(s.spans))
	for span := range s.spans {
		out = append(out, span)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Lo != out[j].Lo {
			return out[i].Lo < out[j].Lo
		}

		return out[i].Hi < out[j].Hi
	})

	return out
}

// Load inserts every span from a persisted list. Duplicates collapse back
// into set membership.
func (s *SurvivedSpans) Load(spans []m.Span) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, span := range spans {
		s.spans[span] = struct{}{}
	}
}
