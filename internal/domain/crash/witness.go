package crash

import "strings"

type VoteKind string

const (
	VoteVerify VoteKind = "verify"
	VoteReject VoteKind = "reject"
)

// ParseVoteKind accepts verify/reject in any case with surrounding spaces.
func ParseVoteKind(raw string) (VoteKind, error) {
	switch VoteKind(strings.ToLower(strings.TrimSpace(raw))) {
	case VoteVerify:
		return VoteVerify, nil
	case VoteReject:
		return VoteReject, nil
	default:
		return "", ErrInvalidVote
	}
}

type WitnessReport struct {
	RaterID      string   `json:"raterId"`
	RaterDisplay string   `json:"raterDisplay"`
	Vote         VoteKind `json:"vote"`
}

type VoteOutcome int

const (
	VoteUnchanged VoteOutcome = iota
	VoteCreated
	VoteChanged
)

func (o VoteOutcome) String() string {
	switch o {
	case VoteCreated:
		return "created"
	case VoteChanged:
		return "changed"
	default:
		return "unchanged"
	}
}

// ApplyWitnessVote records vote for voterID and reports what changed.
// The input slice is never modified; a copy is returned when the set changes.
func ApplyWitnessVote(reports []WitnessReport, voterID string, voterDisplay string, vote VoteKind) ([]WitnessReport, VoteOutcome) {
	for i, report := range reports {
		if report.RaterID != voterID {
			continue
		}
		if report.Vote == vote {
			return reports, VoteUnchanged
		}

		next := make([]WitnessReport, len(reports))
		copy(next, reports)
		next[i].Vote = vote
		return next, VoteChanged
	}

	next := make([]WitnessReport, len(reports), len(reports)+1)
	copy(next, reports)
	next = append(next, WitnessReport{
		RaterID:      voterID,
		RaterDisplay: voterDisplay,
		Vote:         vote,
	})
	return next, VoteCreated
}

// AccuracyPercentage is the share of verify votes, rounded half up. Zero votes yield 0.
func AccuracyPercentage(reports []WitnessReport) int {
	total := len(reports)
	if total == 0 {
		return 0
	}

	verify := 0
	for _, report := range reports {
		if report.Vote == VoteVerify {
			verify++
		}
	}

	// round(100*v/t) half up == floor((200*v + t) / 2t)
	return (200*verify + total) / (2 * total)
}

// FindWitnessReport returns the report cast by raterID, if any.
func FindWitnessReport(reports []WitnessReport, raterID string) (WitnessReport, bool) {
	for _, report := range reports {
		if report.RaterID == raterID {
			return report, true
		}
	}
	return WitnessReport{}, false
}
