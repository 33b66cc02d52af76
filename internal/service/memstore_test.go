package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/streaks/internal/error_values"
	"github.com/limbo/streaks/pkg/calendar"
	"github.com/limbo/streaks/pkg/entity"
)

// memStore is an in-memory persistence collaborator that enforces one check per (habit, day)
// the same way the database unique constraint does.
type memStore struct {
	mu     sync.Mutex
	habits map[uuid.UUID]*entity.Habit
	checks map[uuid.UUID]map[string]calendar.Day

	// when set, every Exists call waits on it before answering
	existsGate *sync.WaitGroup
}

func newMemStore() *memStore {
	return &memStore{
		habits: make(map[uuid.UUID]*entity.Habit),
		checks: make(map[uuid.UUID]map[string]calendar.Day),
	}
}

func (s *memStore) addHabit(uid uuid.UUID) *entity.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &entity.Habit{ID: uuid.New(), UserID: uid, Name: "Meditate", Category: entity.DefaultCategory, Frequency: entity.FrequencyDaily}
	s.habits[h.ID] = h
	s.checks[h.ID] = make(map[string]calendar.Day)
	return h
}

func (s *memStore) count(habitID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.checks[habitID])
}

type memHabits struct{ *memStore }

func (m memHabits) Create(_ context.Context, habit *entity.Habit) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := *habit
	h.ID = uuid.New()
	m.habits[h.ID] = &h
	m.checks[h.ID] = make(map[string]calendar.Day)
	return h.ID, nil
}

func (m memHabits) GetByID(_ context.Context, id uuid.UUID) (*entity.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.habits[id]
	if !ok {
		return nil, errorvalues.ErrHabitNotFound
	}
	cp := *h
	return &cp, nil
}

func (m memHabits) GetByUserID(_ context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Habit, 0)
	for _, h := range m.habits {
		if h.UserID == uid {
			cp := *h
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m memHabits) Update(_ context.Context, habit *entity.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[habit.ID]; !ok {
		return errorvalues.ErrHabitNotFound
	}
	cp := *habit
	m.habits[habit.ID] = &cp
	return nil
}

func (m memHabits) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[id]; !ok {
		return errorvalues.ErrHabitNotFound
	}
	delete(m.habits, id)
	delete(m.checks, id)
	return nil
}

type memChecks struct{ *memStore }

func (m memChecks) Create(_ context.Context, habitID uuid.UUID, day calendar.Day) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	days, ok := m.checks[habitID]
	if !ok {
		return errorvalues.ErrHabitNotFound
	}
	if _, dup := days[day.String()]; dup {
		return errorvalues.ErrCheckExist
	}
	days[day.String()] = day
	return nil
}

func (m memChecks) Delete(_ context.Context, habitID uuid.UUID, day calendar.Day) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	days := m.checks[habitID]
	if _, ok := days[day.String()]; !ok {
		return 0, nil
	}
	delete(days, day.String())
	return 1, nil
}

func (m memChecks) Exists(_ context.Context, habitID uuid.UUID, day calendar.Day) (bool, error) {
	m.mu.Lock()
	_, ok := m.checks[habitID][day.String()]
	gate := m.existsGate
	m.mu.Unlock()
	if gate != nil {
		gate.Done()
		gate.Wait()
	}
	return ok, nil
}

func (m memChecks) ListDates(_ context.Context, habitID uuid.UUID) ([]calendar.Day, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]calendar.Day, 0, len(m.checks[habitID]))
	for _, d := range m.checks[habitID] {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (m memChecks) GetByHabitAndDateRange(_ context.Context, habitID uuid.UUID, from, to *calendar.Day) ([]entity.HabitCheck, error) {
	days, _ := m.ListDates(context.Background(), habitID)
	out := make([]entity.HabitCheck, 0, len(days))
	for _, d := range days {
		if (from != nil && d.Before(*from)) || (to != nil && d.After(*to)) {
			continue
		}
		out = append(out, entity.HabitCheck{HabitID: habitID, CheckDate: d})
	}
	return out, nil
}
