package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitStep(t *testing.T) {
	assert.Equal(t, "unit_000_cleaned", UnitStep(0))
	assert.Equal(t, "unit_007_cleaned", UnitStep(7))
	assert.Equal(t, "unit_042_cleaned", UnitStep(42))
	assert.Equal(t, "unit_120_cleaned", UnitStep(120))
}
