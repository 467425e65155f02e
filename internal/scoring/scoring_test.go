package scoring

import (
	"errors"
	"math"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestHowScoreAveragesSixScores(t *testing.T) {
	got, err := HowScore([]int{2, 2, 3, 2, 2, 3})
	if err != nil {
		t.Fatalf("HowScore: %v", err)
	}
	if got != 2.33 {
		t.Fatalf("HowScore = %v, want 2.33", got)
	}
}

func TestHowScoreRequiresExactlySix(t *testing.T) {
	if _, err := HowScore([]int{2, 2, 3}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if _, err := HowScore([]int{2, 2, 3, 2, 2, 3, 2}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete for seven scores, got %v", err)
	}
}

func TestHowScoreRejectsOutOfRange(t *testing.T) {
	if _, err := HowScore([]int{2, 2, 3, 2, 2, 4}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := HowScore([]int{0, 2, 3, 2, 2, 3}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestVetoDominatesAnyMean(t *testing.T) {
	// Any set containing a 1 forces 1.00, however high the raw mean.
	sets := [][]int{
		{1, 3, 3, 3, 3, 3},
		{3, 3, 1, 3, 3, 3},
		{1, 1, 1, 1, 1, 1},
		{2, 2, 2, 2, 2, 1},
	}
	for _, scores := range sets {
		got, veto, err := FinalHowScore(scores)
		if err != nil {
			t.Fatalf("FinalHowScore(%v): %v", scores, err)
		}
		if !veto {
			t.Fatalf("FinalHowScore(%v): veto = false, want true", scores)
		}
		if got != 1.00 {
			t.Fatalf("FinalHowScore(%v) = %v, want 1.00", scores, got)
		}
	}
}

func TestFinalHowScoreWithoutVetoIsRoundedMean(t *testing.T) {
	sets := map[float64][]int{
		2.33: {2, 2, 3, 2, 2, 3},
		3.00: {3, 3, 3, 3, 3, 3},
		2.00: {2, 2, 2, 2, 2, 2},
		2.17: {2, 2, 2, 2, 2, 3},
	}
	for want, scores := range sets {
		got, veto, err := FinalHowScore(scores)
		if err != nil {
			t.Fatalf("FinalHowScore(%v): %v", scores, err)
		}
		if veto {
			t.Fatalf("FinalHowScore(%v): unexpected veto", scores)
		}
		if got != want {
			t.Fatalf("FinalHowScore(%v) = %v, want %v", scores, got, want)
		}
	}
}

func TestGridPositionBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  int
	}{
		{1.00, 1},
		{1.66, 1},
		{1.67, 2},
		{2.33, 2},
		{2.34, 3},
		{3.00, 3},
	}
	for _, c := range cases {
		if got := GridPosition(c.score); got != c.want {
			t.Fatalf("GridPosition(%v) = %d, want %d", c.score, got, c.want)
		}
	}
}

func TestGridPositionIsStableUnderFloatNoise(t *testing.T) {
	// 2.33 arriving as an accumulated float must still land in bucket 2.
	score := 0.0
	for i := 0; i < 7; i++ {
		score += 2.33 / 7
	}
	if got := GridPosition(score); got != 2 {
		t.Fatalf("GridPosition(%v) = %d, want 2", score, got)
	}
}

func TestWhatScoreWeightedAverage(t *testing.T) {
	goals := []GoalScore{
		{Weight: 40, Score: intPtr(2)},
		{Weight: 35, Score: intPtr(3)},
		{Weight: 25, Score: intPtr(2)},
	}
	got, err := WhatScore(goals)
	if err != nil {
		t.Fatalf("WhatScore: %v", err)
	}
	if got != 2.35 {
		t.Fatalf("WhatScore = %v, want 2.35", got)
	}
}

func TestWhatScoreRejectsUnscoredGoal(t *testing.T) {
	goals := []GoalScore{
		{Weight: 50, Score: intPtr(2)},
		{Weight: 50, Score: nil},
	}
	if _, err := WhatScore(goals); !errors.Is(err, ErrUnscored) {
		t.Fatalf("expected ErrUnscored, got %v", err)
	}
}

func TestWhatScoreRejectsBadWeightSum(t *testing.T) {
	for _, sum := range []int{99, 101} {
		goals := []GoalScore{
			{Weight: sum - 50, Score: intPtr(2)},
			{Weight: 50, Score: intPtr(3)},
		}
		if _, err := WhatScore(goals); !errors.Is(err, ErrBadWeights) {
			t.Fatalf("weights summing to %d: expected ErrBadWeights, got %v", sum, err)
		}
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	if got := Round2(2.346); got != 2.35 {
		t.Fatalf("Round2(2.346) = %v, want 2.35", got)
	}
	if got := Round2(14.0 / 6.0); got != 2.33 {
		t.Fatalf("Round2(14/6) = %v, want 2.33", got)
	}
	if math.Signbit(Round2(0)) {
		t.Fatalf("Round2(0) produced -0")
	}
}
