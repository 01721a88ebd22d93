// internal/features/transform.go

// Package features maps raw applicant records onto the fixed-order
// numeric vectors the models train and score on.
package features

import "credit-scoring/internal/models"

// BaseNumericColumns is the fixed model-ready column list, excluding the
// one-hot loan_purpose columns and the label. Order is significant and
// mirrors the cleaned dataset layout.
var BaseNumericColumns = []string{
	"age",
	"annual_income",
	"years_employed",
	"monthly_debt",
	"loan_amount",
	"existing_credits",
	"credit_history_length",
	"dependents",
	"debt_to_income_ratio",
	"credit_to_income_ratio",
	"debt_burden",
	"credit_quality_score",
	"gender_encoded",
	"employment_status_encoded",
	"payment_history_encoded",
	"marital_status_encoded",
	"education_encoded",
	"home_ownership_encoded",
}

func buildBase(rec models.RawApplicantRecord) *Vector {
	d := DeriveRatios(rec.AnnualIncome, rec.MonthlyDebt, rec.LoanAmount, rec.CreditHistoryLength)

	v := NewVector()
	v.Set("age", rec.Age)
	v.Set("annual_income", rec.AnnualIncome)
	v.Set("years_employed", rec.YearsEmployed)
	v.Set("monthly_debt", rec.MonthlyDebt)
	v.Set("loan_amount", rec.LoanAmount)
	v.Set("existing_credits", rec.ExistingCredits)
	v.Set("credit_history_length", rec.CreditHistoryLength)
	v.Set("dependents", rec.Dependents)
	v.Set("debt_to_income_ratio", d.DebtToIncomeRatio)
	v.Set("credit_to_income_ratio", d.CreditToIncomeRatio)
	v.Set("debt_burden", d.DebtBurden)
	v.Set("credit_quality_score", d.CreditQualityScore)
	v.Set("gender_encoded", EncodeGender(rec.Gender))
	v.Set("employment_status_encoded", EncodeEmploymentStatus(rec.EmploymentStatus))
	v.Set("payment_history_encoded", EncodePaymentHistory(rec.PaymentHistory))
	v.Set("marital_status_encoded", EncodeMaritalStatus(rec.MaritalStatus))
	v.Set("education_encoded", EncodeEducation(rec.Education))
	v.Set("home_ownership_encoded", EncodeHomeOwnership(rec.HomeOwnership))
	return v
}

// BuildTrainingFeatures maps one raw record onto the model-ready vector.
// The loan purpose one-hot column is set when present; columns for other
// purposes in the dataset are padded in by the cleaning stage.
func BuildTrainingFeatures(rec models.RawApplicantRecord) *Vector {
	v := buildBase(rec)
	if rec.LoanPurpose != "" {
		v.Set(LoanPurposeColumn(rec.LoanPurpose), 1)
	}
	return v
}

// BuildInferenceFeatures maps a minimal inbound applicant onto a feature
// vector, filling the attributes the record does not carry with the
// documented defaults. The result still needs Reconcile against the
// loaded manifest before it can be scored.
func BuildInferenceFeatures(app models.Applicant) *Vector {
	rec := models.RawApplicantRecord{
		Age:                 DefaultAge,
		AnnualIncome:        app.AnnualIncome,
		YearsEmployed:       DefaultYearsEmployed,
		MonthlyDebt:         app.MonthlyDebt,
		LoanAmount:          app.LoanAmount,
		ExistingCredits:     DefaultExistingCredits,
		CreditHistoryLength: DefaultCreditHistoryLength,
		Dependents:          DefaultDependents,
		Gender:              DefaultGender,
		EmploymentStatus:    DefaultEmploymentStatus,
		PaymentHistory:      DefaultPaymentHistory,
		MaritalStatus:       DefaultMaritalStatus,
		Education:           DefaultEducation,
		HomeOwnership:       DefaultHomeOwnership,
	}

	v := buildBase(rec)

	// monthly_income is carried for parity with the reference transform;
	// manifests that exclude it drop it during reconciliation.
	d := DeriveRatios(rec.AnnualIncome, rec.MonthlyDebt, rec.LoanAmount, rec.CreditHistoryLength)
	v.Set("monthly_income", d.MonthlyIncome)

	return v
}
