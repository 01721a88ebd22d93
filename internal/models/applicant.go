// internal/models/applicant.go
package models

// RawApplicantRecord is one training example from the raw dataset.
// Identity fields are deliberately absent.
type RawApplicantRecord struct {
	Age                 float64 `json:"age"`
	AnnualIncome        float64 `json:"annual_income"`
	YearsEmployed       float64 `json:"years_employed"`
	MonthlyDebt         float64 `json:"monthly_debt"`
	LoanAmount          float64 `json:"loan_amount"`
	ExistingCredits     float64 `json:"existing_credits"`
	CreditHistoryLength float64 `json:"credit_history_length"`
	Dependents          float64 `json:"dependents"`
	Gender              string  `json:"gender"`
	EmploymentStatus    string  `json:"employment_status"`
	PaymentHistory      string  `json:"payment_history"`
	MaritalStatus       string  `json:"marital_status"`
	Education           string  `json:"education"`
	HomeOwnership       string  `json:"home_ownership"`
	LoanPurpose         string  `json:"loan_purpose"`
	Default             int     `json:"default"`
}

// Applicant is the minimal inbound record supplied by the web layer.
// Fields the feature transform expects but this record omits (age,
// employment tenure, the categorical attributes) are filled with the
// documented constants in internal/features. That gap is inherited from
// the upstream product contract, not inferred away here.
type Applicant struct {
	FullName     string  `json:"full_name"`
	AnnualIncome float64 `json:"annual_income"`
	MonthlyDebt  float64 `json:"monthly_debt"`
	LoanAmount   float64 `json:"loan_amount"`
}
