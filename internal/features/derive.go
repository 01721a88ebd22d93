// internal/features/derive.go
package features

// Derived holds the quantities computed from raw financial fields.
// Training and inference both go through DeriveRatios, so the two paths
// cannot drift apart.
type Derived struct {
	DebtToIncomeRatio   float64
	CreditToIncomeRatio float64
	MonthlyIncome       float64
	DebtBurden          float64
	CreditQualityScore  float64
}

// DeriveRatios computes the fixed derived quantities. Every division
// guards against a zero denominator by substituting 0.
func DeriveRatios(annualIncome, monthlyDebt, loanAmount, creditHistoryLength float64) Derived {
	d := Derived{
		CreditQualityScore: creditHistoryLength * 10,
	}

	if annualIncome > 0 {
		d.DebtToIncomeRatio = (monthlyDebt * 12) / annualIncome
		d.CreditToIncomeRatio = loanAmount / annualIncome
	}

	d.MonthlyIncome = annualIncome / 12
	if d.MonthlyIncome > 0 {
		d.DebtBurden = (monthlyDebt / d.MonthlyIncome) * 100
	}

	return d
}
