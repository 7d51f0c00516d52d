package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/matriculacion/internal/models"
	"github.com/noah-isme/matriculacion/internal/repository"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

// TrainingCycleService handles training cycle use-cases.
type TrainingCycleService struct {
	store  registryStore
	logger *zap.Logger
}

// NewTrainingCycleService constructs the service.
func NewTrainingCycleService(store registryStore, logger *zap.Logger) *TrainingCycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainingCycleService{store: store, logger: logger}
}

// Create registers a new training cycle.
func (s *TrainingCycleService) Create(cycle *models.TrainingCycle) error {
	if err := cycle.Validate(); err != nil {
		return err
	}
	if err := s.store.Update(func(tx *repository.Tx) error {
		return tx.Cycles.Create(cycle)
	}); err != nil {
		return err
	}
	s.logger.Info("training cycle registered", zap.String("code", cycle.Code))
	return nil
}

// Find returns the cycle with the given code.
func (s *TrainingCycleService) Find(code string) (*models.TrainingCycle, bool) {
	var (
		cycle *models.TrainingCycle
		ok    bool
	)
	_ = s.store.View(func(tx *repository.Tx) error {
		cycle, ok = tx.Cycles.FindByCode(normaliseKey(code))
		return nil
	})
	return cycle, ok
}

// Delete removes a cycle that owns no subjects.
func (s *TrainingCycleService) Delete(code string) error {
	code = normaliseKey(code)
	err := s.store.Update(func(tx *repository.Tx) error {
		if !tx.Cycles.Exists(code) {
			return appErrors.Clonef(appErrors.ErrNotFound, "training cycle %s not found", code)
		}
		if n := tx.Subjects.CountByCycle(code); n > 0 {
			return appErrors.Clonef(appErrors.ErrReferentialIntegrity, "training cycle %s still has %d subjects", code, n)
		}
		return tx.Cycles.Delete(code)
	})
	if err != nil {
		return err
	}
	s.logger.Info("training cycle deleted", zap.String("code", code))
	return nil
}

// List returns all cycles in registration order.
func (s *TrainingCycleService) List() []*models.TrainingCycle {
	var cycles []*models.TrainingCycle
	_ = s.store.View(func(tx *repository.Tx) error {
		cycles = tx.Cycles.List()
		return nil
	})
	return cycles
}
