// Package stats keeps running statistics for self-play matches.
package stats

import (
	"fmt"
	"math"
)

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Running is a streaming mean/variance accumulator (Welford).
type Running struct {
	n    int
	mean float64
	m2   float64
}

func (r *Running) Add(x float64) {
	r.n++
	delta := x - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (x - r.mean)
}

func (r *Running) Count() int {
	return r.n
}

func (r *Running) Mean() float64 {
	return r.mean
}

// Variance is the sample variance; zero with fewer than two samples.
func (r *Running) Variance() float64 {
	if r.n < 2 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

func (r *Running) Stdev() float64 {
	return math.Sqrt(r.Variance())
}

func (r *Running) StandardError() float64 {
	if r.n == 0 {
		return 0
	}
	return math.Sqrt(r.Variance() / float64(r.n))
}

// Tally counts game results from one player's point of view. The score of a
// game is 1 for a win, 0.5 for a tie and 0 for a loss.
type Tally struct {
	Wins   int
	Losses int
	Ties   int
	score  Running
}

// Record adds one game with the given reward.
func (t *Tally) Record(reward float64) {
	switch {
	case reward > 0.5:
		t.Wins++
	case reward < 0.5:
		t.Losses++
	default:
		t.Ties++
	}
	t.score.Add(reward)
}

func (t *Tally) Games() int {
	return t.score.Count()
}

// Score is the mean reward per game.
func (t *Tally) Score() float64 {
	return t.score.Mean()
}

// Interval returns the confidence interval of Score at the given
// confidence percentage, clamped to [0, 1].
func (t *Tally) Interval(confidence float64) (float64, float64) {
	e := ZVal(confidence) * t.score.StandardError()
	return math.Max(0, t.Score()-e), math.Min(1, t.Score()+e)
}

func (t *Tally) String() string {
	lo, hi := t.Interval(95)
	return fmt.Sprintf("+%d -%d =%d (score %.3f, 95%% CI %.3f-%.3f)",
		t.Wins, t.Losses, t.Ties, t.Score(), lo, hi)
}
