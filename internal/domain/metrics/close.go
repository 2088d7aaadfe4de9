package metrics

import "math"

// CheckStatus is the outcome of one close-readiness checklist item
type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusWarn CheckStatus = "warn"
	CheckStatusFail CheckStatus = "fail"
)

// IsValid returns true if the status is one of pass, warn, fail
func (s CheckStatus) IsValid() bool {
	switch s {
	case CheckStatusPass, CheckStatusWarn, CheckStatusFail:
		return true
	}
	return false
}

// ChecklistItem is one period-health signal evaluated by the checklist
// collaborator. Weight scales the item's contribution to the score; a
// non-positive weight counts as 1.
type ChecklistItem struct {
	Label   string      `json:"label"`
	Status  CheckStatus `json:"status"`
	Count   int64       `json:"count"`
	Details string      `json:"details,omitempty"`
	Weight  float64     `json:"-"`
}

// ScorePolicy assigns per-status credit toward the readiness score.
// The weighting is an external policy input, not fixed by the scorer.
type ScorePolicy struct {
	PassCredit float64
	WarnCredit float64
	FailCredit float64
}

// DefaultScorePolicy gives full credit to passing items, half credit to
// warnings and none to failures
func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{PassCredit: 1, WarnCredit: 0.5, FailCredit: 0}
}

// CloseReadinessResult is the ephemeral close-readiness summary
type CloseReadinessResult struct {
	Score    int             `json:"score"`
	CanClose bool            `json:"can_close"`
	Items    []ChecklistItem `json:"items"`
}

// ScoreChecklist folds the checklist into a 0-100 readiness score. The
// score is the weighted credit ratio scaled to 100; CanClose is true iff
// no item failed. The scorer performs no I/O - evaluating the checklist
// against the ledger is the collaborator's responsibility. An empty
// checklist scores 100 with nothing blocking the close.
func ScoreChecklist(items []ChecklistItem, policy ScorePolicy) CloseReadinessResult {
	var weightSum, creditSum float64
	canClose := true

	for _, item := range items {
		weight := item.Weight
		if weight <= 0 {
			weight = 1
		}
		weightSum += weight

		switch item.Status {
		case CheckStatusPass:
			creditSum += weight * policy.PassCredit
		case CheckStatusWarn:
			creditSum += weight * policy.WarnCredit
		case CheckStatusFail:
			creditSum += weight * policy.FailCredit
			canClose = false
		}
	}

	score := 100
	if weightSum > 0 {
		score = int(math.Round(creditSum / weightSum * 100))
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return CloseReadinessResult{
		Score:    score,
		CanClose: canClose,
		Items:    items,
	}
}
