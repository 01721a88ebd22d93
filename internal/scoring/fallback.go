// internal/scoring/fallback.go

package scoring

import "credit-scoring/internal/models"

// Fallback computes the rule-based score used whenever no model can
// serve a request. The rules are fixed and deterministic so the
// degraded path stays predictable and testable.
func Fallback(app models.Applicant) models.ScoreResult {
	score := 650
	if app.AnnualIncome > 50000 {
		score += 50
	}
	if app.MonthlyDebt < 1000 {
		score += 50
	}

	risk := models.RiskMedium
	if score > 700 {
		risk = models.RiskLow
	}

	return models.ScoreResult{
		CreditScore:        score,
		RiskLevel:          risk,
		DefaultProbability: 0.1,
		Provenance:         models.ProvenanceRuleBased,
		ModelUsed:          "rule-based",
	}
}
