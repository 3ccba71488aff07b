package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferenceRepo(t *testing.T) {
	repo := NewPreferenceRepo()

	unit, err := repo.GetLastUnit(123)
	assert.NoError(t, err)
	assert.Empty(t, unit)

	assert.NoError(t, repo.SetLastUnit(123, "unit_3"))
	assert.NoError(t, repo.SetLastUnit(456, "unit_1"))
	assert.NoError(t, repo.SetLastUnit(123, "unit_4"))

	unit, err = repo.GetLastUnit(123)
	assert.NoError(t, err)
	assert.Equal(t, "unit_4", unit)

	unit, err = repo.GetLastUnit(456)
	assert.NoError(t, err)
	assert.Equal(t, "unit_1", unit)
}
