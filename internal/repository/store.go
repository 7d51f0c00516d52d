package repository

import "sync"

// Tx exposes the entity repositories to a View or Update callback.
type Tx struct {
	Students    *StudentRepository
	Cycles      *TrainingCycleRepository
	Subjects    *SubjectRepository
	Enrollments *EnrollmentRepository
}

// Store groups one repository per entity type behind a single lock, so
// checks that span repositories (references, duplicates) see a consistent
// state. Callbacks must validate before mutating: Update does not roll back.
type Store struct {
	mu sync.RWMutex
	tx Tx
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{tx: Tx{
		Students:    NewStudentRepository(),
		Cycles:      NewTrainingCycleRepository(),
		Subjects:    NewSubjectRepository(),
		Enrollments: NewEnrollmentRepository(),
	}}
}

// View runs fn under the read lock. fn must not mutate.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.tx)
}

// Update runs fn under the write lock.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.tx)
}
