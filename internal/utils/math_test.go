package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomFloat_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := RandomFloat()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSequenceRand(t *testing.T) {
	rnd := SequenceRand(0.1, 0.5)
	assert.Equal(t, 0.1, rnd())
	assert.Equal(t, 0.5, rnd())
	assert.Equal(t, 0.5, rnd(), "last value repeats")

	assert.Equal(t, 0.0, SequenceRand()())
}
