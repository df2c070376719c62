package book

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaturatingAdd(t *testing.T) {
	assert.EqualValues(t, 150, SaturatingAdd(100, 50))
	assert.EqualValues(t, uint64(math.MaxUint64), SaturatingAdd(math.MaxUint64, 1))
	assert.EqualValues(t, uint64(math.MaxUint64), SaturatingAdd(math.MaxUint64-1, 5))
}

func TestSaturatingSub(t *testing.T) {
	assert.EqualValues(t, 50, SaturatingSub(100, 50))
	assert.EqualValues(t, 0, SaturatingSub(0, 1))
	assert.EqualValues(t, 0, SaturatingSub(5, 10))
}
