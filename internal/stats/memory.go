package stats

import (
	"context"
	"sync"
)

// MemoryRecorder keeps counters in process; totals are lost on restart.
type MemoryRecorder struct {
	mu        sync.Mutex
	total     map[Outcome]int64
	byLecture map[int64]map[Outcome]int64
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		total:     make(map[Outcome]int64),
		byLecture: make(map[int64]map[Outcome]int64),
	}
}

func (m *MemoryRecorder) Record(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total[ev.Outcome]++

	perLecture, ok := m.byLecture[ev.LectureID]
	if !ok {
		perLecture = make(map[Outcome]int64)
		m.byLecture[ev.LectureID] = perLecture
	}
	perLecture[ev.Outcome]++

	return nil
}

func (m *MemoryRecorder) Total(o Outcome) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.total[o]
}

func (m *MemoryRecorder) Lecture(lectureID int64, o Outcome) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.byLecture[lectureID][o]
}

// Totals returns a copy of the per-outcome totals.
func (m *MemoryRecorder) Totals() map[Outcome]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[Outcome]int64, len(m.total))
	for o, n := range m.total {
		out[o] = n
	}
	return out
}
