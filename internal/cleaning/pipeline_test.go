// internal/cleaning/pipeline_test.go
package cleaning

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"credit-scoring/internal/common/errors"
	"credit-scoring/internal/common/logger"
	"credit-scoring/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var rawHeader = []string{
	"age", "annual_income", "years_employed", "monthly_debt", "loan_amount",
	"existing_credits", "credit_history_length", "dependents",
	"gender", "employment_status", "payment_history", "marital_status",
	"education", "home_ownership", "loan_purpose", "default",
}

func validRow(overrides map[string]string) []string {
	row := map[string]string{
		"age": "35", "annual_income": "60000", "years_employed": "5",
		"monthly_debt": "800", "loan_amount": "15000",
		"existing_credits": "1", "credit_history_length": "5", "dependents": "0",
		"gender": "M", "employment_status": "Employed", "payment_history": "Good",
		"marital_status": "Married", "education": "Bachelor",
		"home_ownership": "Own", "loan_purpose": "Home", "default": "0",
	}
	for k, v := range overrides {
		row[k] = v
	}
	out := make([]string, len(rawHeader))
	for i, col := range rawHeader {
		out[i] = row[col]
	}
	return out
}

func writeRawCSV(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(rawHeader))
	require.NoError(t, w.WriteAll(rows))
	return path
}

func runPipeline(t *testing.T, rows [][]string) (*Result, string) {
	t.Helper()
	rawPath := writeRawCSV(t, rows)
	processedPath := filepath.Join(t.TempDir(), "processed", "clean.csv")

	p := NewPipeline(rawPath, processedPath, logger.NewNoOpLogger())
	result, err := p.Run()
	require.NoError(t, err)
	return result, processedPath
}

// ==========================
// Core Functionality Tests
// ==========================

func TestPipeline_Run_Success(t *testing.T) {
	rows := [][]string{
		validRow(nil),
		validRow(map[string]string{"age": "28", "loan_purpose": "Car", "default": "1"}),
		validRow(map[string]string{"age": "52", "annual_income": "95000"}),
	}

	result, processedPath := runPipeline(t, rows)

	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 0, result.DuplicatesRemoved)
	assert.Equal(t, 0, result.RowsDropped)
	assert.FileExists(t, processedPath)
	assert.FileExists(t, result.MLReadyPath)
	assert.FileExists(t, result.SummaryPath)

	full, err := dataset.LoadCSV(processedPath)
	require.NoError(t, err)
	for _, col := range []string{
		"debt_to_income_ratio", "credit_to_income_ratio", "monthly_income",
		"debt_burden", "age_group", "income_group", "employment_stability",
		"credit_quality_score", "gender_encoded", "risk_score", "risk_level",
		"loan_purpose_Car", "loan_purpose_Home",
	} {
		assert.True(t, full.HasColumn(col), "expected column %s", col)
	}
}

func TestPipeline_RangeFilterBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		kept     bool
	}{
		{"age 17 dropped", map[string]string{"age": "17"}, false},
		{"age 18 retained", map[string]string{"age": "18"}, true},
		{"age 100 retained", map[string]string{"age": "100"}, true},
		{"age 101 dropped", map[string]string{"age": "101"}, false},
		{"zero income dropped", map[string]string{"annual_income": "0"}, false},
		{"zero loan dropped", map[string]string{"loan_amount": "0"}, false},
		{"negative tenure dropped", map[string]string{"years_employed": "-1"}, false},
		{"zero tenure retained", map[string]string{"years_employed": "0"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// An anchor row keeps the run from failing when the row
			// under test is dropped.
			rows := [][]string{
				validRow(map[string]string{"age": "40"}),
				validRow(tt.override),
			}
			result, _ := runPipeline(t, rows)
			if tt.kept {
				assert.Equal(t, 2, result.Rows)
			} else {
				assert.Equal(t, 1, result.Rows)
				assert.Equal(t, 1, result.RowsDropped)
			}
		})
	}
}

func TestPipeline_DropsDuplicates(t *testing.T) {
	rows := [][]string{
		validRow(nil),
		validRow(nil),
		validRow(map[string]string{"age": "41"}),
	}
	result, _ := runPipeline(t, rows)

	assert.Equal(t, 1, result.DuplicatesRemoved)
	assert.Equal(t, 2, result.Rows)
}

func TestPipeline_ImputesMissingValues(t *testing.T) {
	rows := [][]string{
		validRow(map[string]string{"age": "30"}),
		validRow(map[string]string{"age": "40", "monthly_debt": "900"}),
		validRow(map[string]string{"age": "", "employment_status": ""}),
	}
	result, processedPath := runPipeline(t, rows)

	// Median age 35 keeps the imputed row inside the valid range.
	assert.Equal(t, 3, result.Rows)

	full, err := dataset.LoadCSV(processedPath)
	require.NoError(t, err)
	ageCol := full.ColumnIndex("age")
	empCol := full.ColumnIndex("employment_status")
	age, ok := full.Float(2, ageCol)
	require.True(t, ok)
	assert.InDelta(t, 35, age, 1e-9)
	assert.Equal(t, "Employed", full.Cell(2, empCol))
}

func TestPipeline_IdempotentOnCleanData(t *testing.T) {
	rows := [][]string{
		validRow(map[string]string{"age": "30"}),
		validRow(map[string]string{"age": "45", "loan_purpose": "Car"}),
	}

	first, _ := runPipeline(t, rows)
	second, _ := runPipeline(t, rows)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, 0, second.DuplicatesRemoved)
	assert.Equal(t, 0, second.RowsDropped)
}

func TestPipeline_MLReadyLayout(t *testing.T) {
	rows := [][]string{
		validRow(nil),
		validRow(map[string]string{"loan_purpose": "Education"}),
	}
	result, _ := runPipeline(t, rows)

	ml, err := dataset.LoadCSV(result.MLReadyPath)
	require.NoError(t, err)

	// Label is the last column; reporting buckets never leak into the
	// model-ready subset.
	assert.Equal(t, "default", ml.Columns[len(ml.Columns)-1])
	assert.False(t, ml.HasColumn("age_group"))
	assert.False(t, ml.HasColumn("income_group"))
	assert.False(t, ml.HasColumn("risk_level"))
	assert.False(t, ml.HasColumn("monthly_income"))
	assert.True(t, ml.HasColumn("loan_purpose_Education"))
	assert.True(t, ml.HasColumn("debt_to_income_ratio"))
}

func TestPipeline_MissingInputFails(t *testing.T) {
	p := NewPipeline(filepath.Join(t.TempDir(), "nope.csv"), filepath.Join(t.TempDir(), "out.csv"), logger.NewNoOpLogger())
	_, err := p.Run()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInputNotFound, errors.CodeOf(err))
	assert.True(t, errors.IsFatal(err))
}

func TestPipeline_MissingColumnFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")
	require.NoError(t, os.WriteFile(path, []byte("age,annual_income\n35,60000\n"), 0o644))

	p := NewPipeline(path, filepath.Join(t.TempDir(), "out.csv"), logger.NewNoOpLogger())
	_, err := p.Run()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfiguration, errors.CodeOf(err))
}

// ==========================
// Risk Label Tests
// ==========================

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name     string
		income   float64
		dti      float64
		years    float64
		history  float64
		payment  string
		expected int
		level    string
	}{
		{"low risk profile", 90000, 0.1, 12, 12, "Excellent", -5, "Low"},
		{"neutral profile", 60000, 0.3, 5, 5, "Good", 0, "Low"},
		{"medium risk", 35000, 0.3, 5, 5, "Good", 2, "Medium"},
		{"high risk profile", 30000, 0.5, 1, 1, "Poor", 8, "High"},
		{"boundary score one", 60000, 0.3, 1, 5, "Good", 1, "Medium"},
		{"boundary score three", 35000, 0.3, 1, 5, "Good", 3, "High"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := RiskScore(tt.income, tt.dti, tt.years, tt.history, tt.payment)
			assert.Equal(t, tt.expected, score)
			assert.Equal(t, tt.level, RiskLevelFor(score))
		})
	}
}

func TestRiskScoreReproducible(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t,
			RiskScore(47500, 0.31, 4, 7, "Fair"),
			RiskScore(47500, 0.31, 4, 7, "Fair"))
	}
}

func TestBuckets(t *testing.T) {
	assert.Equal(t, "18-25", bucketAge(25))
	assert.Equal(t, "26-35", bucketAge(26))
	assert.Equal(t, "56+", bucketAge(70))

	assert.Equal(t, "Low", bucketIncome(40000))
	assert.Equal(t, "Medium", bucketIncome(40001))
	assert.Equal(t, "Ultra High", bucketIncome(150000))

	assert.Equal(t, "New", bucketStability(4))
	assert.Equal(t, "Moderate", bucketStability(5))
	assert.Equal(t, "Stable", bucketStability(10))
}
