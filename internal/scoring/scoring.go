// Package scoring holds the pure derivation rules for review scores and
// 9-box grid placement. Nothing in here touches the database.
package scoring

import (
	"errors"
	"math"
)

// CompetencyTarget is the number of distinct competency scores that feed
// one review.
const CompetencyTarget = 6

var (
	ErrIncomplete = errors.New("competency scores incomplete")
	ErrOutOfRange = errors.New("score out of range 1..3")
	ErrUnscored   = errors.New("unscored goal")
	ErrBadWeights = errors.New("goal weights do not sum to 100")
)

// Round2 rounds half away from zero to 2 decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HowScore averages exactly six competency scores, rounded to 2 decimals.
// Fewer than six present signals ErrIncomplete.
func HowScore(scores []int) (float64, error) {
	if len(scores) != CompetencyTarget {
		return 0, ErrIncomplete
	}
	sum := 0
	for _, s := range scores {
		if s < 1 || s > 3 {
			return 0, ErrOutOfRange
		}
		sum += s
	}
	return Round2(float64(sum) / CompetencyTarget), nil
}

// Veto is true iff any competency scored 1.
func Veto(scores []int) bool {
	for _, s := range scores {
		if s == 1 {
			return true
		}
	}
	return false
}

// FinalHowScore applies the veto rule: when any competency scored 1 the
// HOW score is forced to 1.00 regardless of the computed average.
func FinalHowScore(scores []int) (score float64, veto bool, err error) {
	avg, err := HowScore(scores)
	if err != nil {
		return 0, false, err
	}
	if Veto(scores) {
		return 1.00, true, nil
	}
	return avg, false, nil
}

// GridPosition buckets a 1.00..3.00 score onto one grid axis. Thresholds
// are closed on the lower bound and compared in hundredths so that 1.66
// lands in 1 and 1.67 in 2, exactly.
func GridPosition(score float64) int {
	c := int(math.Round(score * 100))
	switch {
	case c <= 166:
		return 1
	case c <= 233:
		return 2
	default:
		return 3
	}
}

// GoalScore is the slice of a goal the WHAT computation needs.
type GoalScore struct {
	Weight int
	Score  *int
}

// WhatScore is the weight-percentage average of live goal scores, rounded
// to 2 decimals. Every goal must be scored and the weights must total 100.
func WhatScore(goals []GoalScore) (float64, error) {
	weightSum := 0
	weighted := 0
	for _, g := range goals {
		if g.Score == nil {
			return 0, ErrUnscored
		}
		if *g.Score < 1 || *g.Score > 3 {
			return 0, ErrOutOfRange
		}
		weightSum += g.Weight
		weighted += g.Weight * *g.Score
	}
	if weightSum != 100 {
		return 0, ErrBadWeights
	}
	return Round2(float64(weighted) / 100), nil
}
