package repository

import (
	"github.com/noah-isme/matriculacion/internal/models"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// TrainingCycleRepository handles storage of training cycles keyed by code.
type TrainingCycleRepository struct {
	cycles *table[string, *models.TrainingCycle]
}

// NewTrainingCycleRepository constructs the repository.
func NewTrainingCycleRepository() *TrainingCycleRepository {
	return &TrainingCycleRepository{cycles: newTable[string, *models.TrainingCycle]()}
}

// Create stores a copy of the cycle.
func (r *TrainingCycleRepository) Create(cycle *models.TrainingCycle) error {
	if !r.cycles.insert(cycle.Clone()) {
		return appErrors.Clonef(appErrors.ErrDuplicateIdentity, "training cycle %s already exists", cycle.Code)
	}
	return nil
}

// FindByCode returns a copy of the cycle with the given code.
func (r *TrainingCycleRepository) FindByCode(code string) (*models.TrainingCycle, bool) {
	c, ok := r.cycles.find(code)
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Exists reports whether a cycle with the code is stored.
func (r *TrainingCycleRepository) Exists(code string) bool {
	_, ok := r.cycles.find(code)
	return ok
}

// Delete removes the cycle with the given code.
func (r *TrainingCycleRepository) Delete(code string) error {
	if !r.cycles.remove(code) {
		return appErrors.Clonef(appErrors.ErrNotFound, "training cycle %s not found", code)
	}
	return nil
}

// List returns copies of all cycles in insertion order.
func (r *TrainingCycleRepository) List() []*models.TrainingCycle {
	return r.cycles.collect(nil, (*models.TrainingCycle).Clone)
}

// Count returns the number of stored cycles.
func (r *TrainingCycleRepository) Count() int { return r.cycles.len() }
