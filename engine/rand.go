package engine

import (
	"math/rand"
	"time"
)

// RandSource is the only randomness the engine uses. Tests inject a
// scripted source; production uses math/rand.
type RandSource interface {
	Float64() float64
	Intn(n int) int
	Bool() bool
}

type mathRandSource struct {
	r *rand.Rand
}

func NewRandSource() RandSource {
	return &mathRandSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (m *mathRandSource) Float64() float64 { return m.r.Float64() }
func (m *mathRandSource) Intn(n int) int   { return m.r.Intn(n) }
func (m *mathRandSource) Bool() bool       { return m.r.Intn(2) == 0 }
