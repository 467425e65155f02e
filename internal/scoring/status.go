package scoring

type TeamStatus string

const (
	TeamStatusNotStarted TeamStatus = "NOT_STARTED"
	TeamStatusInProgress TeamStatus = "IN_PROGRESS"
	TeamStatusComplete   TeamStatus = "COMPLETE"
)

// DeriveTeamStatus maps raw per-review counts onto a dashboard status.
// It is recomputed on every query and never persisted.
func DeriveTeamStatus(goalCount, scoredGoalCount, competencyScoredCount int) TeamStatus {
	if scoredGoalCount == 0 && competencyScoredCount == 0 {
		return TeamStatusNotStarted
	}
	goalsDone := goalCount == 0 || scoredGoalCount >= goalCount
	if goalsDone && competencyScoredCount >= CompetencyTarget {
		return TeamStatusComplete
	}
	return TeamStatusInProgress
}
