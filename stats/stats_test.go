package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunning(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		samples []float64
		mean    float64
		stdev   float64
	}{
		{[]float64{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]float64{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]float64{1}, 1, 0},
		{nil, 0, 0},
		{[]float64{1, 1}, 1, 0},
	}
	for _, c := range cases {
		r := &Running{}
		for _, s := range c.samples {
			r.Add(s)
		}
		is.Equal(r.Count(), len(c.samples))
		is.True(FuzzyEqual(r.Mean(), c.mean))
		is.True(FuzzyEqual(r.Stdev(), c.stdev))
	}
}

func TestTally(t *testing.T) {
	is := is.New(t)
	tl := &Tally{}
	for _, r := range []float64{1, 1, 1, 0.5, 0} {
		tl.Record(r)
	}
	is.Equal(tl.Wins, 3)
	is.Equal(tl.Ties, 1)
	is.Equal(tl.Losses, 1)
	is.Equal(tl.Games(), 5)
	is.True(FuzzyEqual(tl.Score(), 0.7))
	lo, hi := tl.Interval(95)
	is.True(lo < 0.7 && hi > 0.7)
	is.True(lo >= 0 && hi <= 1)
}

func TestTallyAllWins(t *testing.T) {
	is := is.New(t)
	tl := &Tally{}
	for i := 0; i < 10; i++ {
		tl.Record(1)
	}
	lo, hi := tl.Interval(99)
	is.Equal(lo, 1.0)
	is.Equal(hi, 1.0)
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(ZVal(99) > ZVal(95))
}
