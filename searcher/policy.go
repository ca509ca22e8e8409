package searcher

import (
	"checkers/meta"
	"math"
)

// Hyperparameters for MCTS

const Exploration = meta.Exploration // UCT exploration constant

type uct struct {
	c   float64
	lnN float64
}

func newUCT(c float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{c: c, lnN: math.Log(N)}
}

func (u uct) evaluate(w float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = w/n + c*sqrt(ln(N)/n)
	return w/n + u.exploration(n)
}

func (u uct) exploration(n float64) float64 {
	return u.c * math.Sqrt(u.lnN/n)
}
