package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/matriculacion/internal/models"
	appErrors "github.com/noah-isme/matriculacion/pkg/errors"
)

func TestStudentRepositoryCreateAndFind(t *testing.T) {
	repo := NewStudentRepository()
	ana, err := models.NewStudent("12345678A", "Ana")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ana))
	found, ok := repo.FindByDNI("12345678A")
	require.True(t, ok)
	assert.True(t, found.Equal(ana))

	_, ok = repo.FindByDNI("87654321B")
	assert.False(t, ok)
}

func TestStudentRepositoryRejectsDuplicate(t *testing.T) {
	repo := NewStudentRepository()
	ana, _ := models.NewStudent("12345678A", "Ana")
	other, _ := models.NewStudent("12345678A", "Otra Ana")
	require.NoError(t, repo.Create(ana))

	err := repo.Create(other)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateIdentity))

	found, _ := repo.FindByDNI("12345678A")
	assert.Equal(t, "Ana", found.Name)
	assert.Equal(t, 1, repo.Count())
}

func TestStudentRepositoryDelete(t *testing.T) {
	repo := NewStudentRepository()
	ana, _ := models.NewStudent("12345678A", "Ana")
	require.NoError(t, repo.Create(ana))

	err := repo.Delete("87654321B")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, 1, repo.Count())

	require.NoError(t, repo.Delete("12345678A"))
	assert.Empty(t, repo.List())
}

func TestStudentRepositoryStoresCopies(t *testing.T) {
	repo := NewStudentRepository()
	ana, _ := models.NewStudent("12345678A", "Ana")
	require.NoError(t, repo.Create(ana))
	ana.Name = "Mutated"

	list := repo.List()
	list[0].Name = "Mutated too"

	found, _ := repo.FindByDNI("12345678A")
	assert.Equal(t, "Ana", found.Name)
}

func TestSubjectRepositoryCountByCycle(t *testing.T) {
	repo := NewSubjectRepository()
	dam, _ := models.NewTrainingCycle("DAM", "Desarrollo de Aplicaciones Multiplataforma")
	daw, _ := models.NewTrainingCycle("DAW", "Desarrollo de Aplicaciones Web")
	for _, s := range []struct {
		code  string
		cycle *models.TrainingCycle
	}{{"DAM01", dam}, {"DAM02", dam}, {"DAW01", daw}} {
		subject, err := models.NewSubject(s.code, "Módulo", 1, s.cycle)
		require.NoError(t, err)
		require.NoError(t, repo.Create(subject))
	}

	assert.Equal(t, 2, repo.CountByCycle("DAM"))
	assert.Equal(t, 1, repo.CountByCycle("DAW"))
	assert.Equal(t, 0, repo.CountByCycle("ASIR"))
}
