package utils

import (
	"math/rand"
	"sync"
)

// RandomFloat returns a random float64 in [0.0, 1.0)
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Game logic randomness, not security critical
}

// SequenceRand returns a deterministic random source that yields values in
// order and repeats the last one once exhausted. Safe for concurrent use.
func SequenceRand(values ...float64) func() float64 {
	var mu sync.Mutex
	i := 0
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		if len(values) == 0 {
			return 0
		}
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}
