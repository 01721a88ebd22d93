// internal/features/defaults.go
package features

// Inference-time defaults for applicant attributes the minimal inbound
// record does not carry. These are the documented constants from the
// product contract: the web layer only supplies income, debt, and loan
// amount, so the remaining model inputs are pinned here. Known gap, kept
// explicit on purpose; do not widen silently without product input.
const (
	DefaultAge                 = 35.0
	DefaultYearsEmployed       = 5.0
	DefaultExistingCredits     = 1.0
	DefaultCreditHistoryLength = 5.0
	DefaultDependents          = 0.0

	DefaultGender           = "M"
	DefaultEmploymentStatus = "Employed"
	DefaultPaymentHistory   = "Good"
	DefaultMaritalStatus    = "Married"
	DefaultEducation        = "Bachelor"
	DefaultHomeOwnership    = "Own"
)
