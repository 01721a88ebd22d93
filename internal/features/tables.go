// internal/features/tables.go
package features

import "strings"

// Fixed categorical encoding tables. Values are frozen: changing any of
// them invalidates every persisted model bundle. Unknown values map to
// the table default instead of failing.

var genderTable = map[string]float64{
	"M": 1,
	"F": 0,
}

var employmentStatusTable = map[string]float64{
	"Unemployed":    0,
	"Employed":      1,
	"Self-Employed": 2,
}

var paymentHistoryTable = map[string]float64{
	"Poor":      0,
	"Fair":      1,
	"Good":      2,
	"Excellent": 3,
}

var maritalStatusTable = map[string]float64{
	"Married":  1,
	"Single":   0,
	"Divorced": 0,
}

var educationTable = map[string]float64{
	"High School": 1,
	"Bachelor":    2,
	"Master":      3,
	"PhD":         4,
}

// Mortgage sits between renting and owning outright.
var homeOwnershipTable = map[string]float64{
	"Own":      1,
	"Rent":     0,
	"Mortgage": 0.5,
}

func lookup(table map[string]float64, value string) float64 {
	if v, ok := table[value]; ok {
		return v
	}
	return 0
}

func EncodeGender(v string) float64           { return lookup(genderTable, v) }
func EncodeEmploymentStatus(v string) float64 { return lookup(employmentStatusTable, v) }
func EncodePaymentHistory(v string) float64   { return lookup(paymentHistoryTable, v) }
func EncodeMaritalStatus(v string) float64    { return lookup(maritalStatusTable, v) }
func EncodeEducation(v string) float64        { return lookup(educationTable, v) }
func EncodeHomeOwnership(v string) float64    { return lookup(homeOwnershipTable, v) }

// LoanPurposeColumn names the one-hot column for a loan purpose value,
// e.g. "Home" -> "loan_purpose_Home". Spaces are collapsed to keep CSV
// headers single-token.
func LoanPurposeColumn(purpose string) string {
	return "loan_purpose_" + strings.ReplaceAll(purpose, " ", "_")
}
