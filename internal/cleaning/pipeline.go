// internal/cleaning/pipeline.go

// Package cleaning implements the batch stage that turns a raw applicant
// CSV into the ML-ready dataset: quality checks, repair, feature
// engineering, categorical encoding, risk labeling, and persistence.
// Stages run strictly in sequence and the whole run aborts on the first
// stage failure.
package cleaning

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"credit-scoring/internal/common/errors"
	"credit-scoring/internal/common/logger"
	"credit-scoring/internal/common/metrics"
	"credit-scoring/internal/dataset"
	"credit-scoring/internal/features"
)

// Columns the raw dataset must carry for the pipeline to run at all.
var requiredColumns = []string{
	"age", "annual_income", "years_employed", "monthly_debt", "loan_amount",
	"existing_credits", "credit_history_length", "dependents",
	"gender", "employment_status", "payment_history", "marital_status",
	"education", "home_ownership", "loan_purpose", "default",
}

// Pipeline runs the cleaning stages over one raw CSV file.
type Pipeline struct {
	rawPath       string
	processedPath string
	logger        logger.Logger

	table *dataset.Table
}

// Result summarizes a completed run.
type Result struct {
	Rows              int
	Columns           int
	DuplicatesRemoved int
	RowsDropped       int
	ProcessedPath     string
	MLReadyPath       string
	SummaryPath       string
}

func NewPipeline(rawPath, processedPath string, log logger.Logger) *Pipeline {
	return &Pipeline{
		rawPath:       rawPath,
		processedPath: processedPath,
		logger:        log.WithFields(map[string]interface{}{"pipeline": "data-cleaning"}),
	}
}

// Run executes Load -> QualityCheck -> Clean -> EngineerFeatures ->
// EncodeCategorical -> LabelRisk -> Persist. Any failure aborts the run.
func (p *Pipeline) Run() (*Result, error) {
	result := &Result{}

	if err := p.load(); err != nil {
		return nil, err
	}
	p.qualityCheck()

	if err := p.clean(result); err != nil {
		return nil, err
	}
	if err := p.engineerFeatures(); err != nil {
		return nil, err
	}
	if err := p.encodeCategorical(); err != nil {
		return nil, err
	}
	if err := p.labelRisk(); err != nil {
		return nil, err
	}
	if err := p.persist(result); err != nil {
		return nil, err
	}

	result.Rows = p.table.NumRows()
	result.Columns = p.table.NumCols()

	p.logger.Info("cleaning pipeline complete", map[string]interface{}{
		"rows":    result.Rows,
		"columns": result.Columns,
		"output":  result.ProcessedPath,
	})
	return result, nil
}

func (p *Pipeline) load() error {
	t, err := dataset.LoadCSV(p.rawPath)
	if err != nil {
		return errors.NewInputNotFoundError(p.rawPath)
	}
	if t.NumRows() == 0 {
		return errors.NewDatasetEmptyError(p.rawPath)
	}

	for _, col := range requiredColumns {
		if !t.HasColumn(col) {
			return errors.NewConfigurationError(fmt.Sprintf("raw dataset missing column %q", col))
		}
	}

	p.table = t
	p.logger.Info("raw data loaded", map[string]interface{}{
		"rows":    t.NumRows(),
		"columns": t.NumCols(),
	})
	return nil
}

func (p *Pipeline) qualityCheck() {
	missing := map[string]int{}
	for i, col := range p.table.Columns {
		if n := p.table.CountMissing(i); n > 0 {
			missing[col] = n
		}
	}

	p.logger.Info("data quality check", map[string]interface{}{
		"missingByColumn": missing,
	})
}

func (p *Pipeline) clean(result *Result) error {
	t := p.table

	result.DuplicatesRemoved = t.DropDuplicates()
	if result.DuplicatesRemoved > 0 {
		metrics.PipelineRowsDropped.WithLabelValues("duplicate").Add(float64(result.DuplicatesRemoved))
	}

	// Impute: numeric columns with the column median, categorical with
	// the column mode.
	for col := range t.Columns {
		if t.CountMissing(col) == 0 {
			continue
		}
		if t.IsNumeric(col) {
			median, ok := t.Median(col)
			if !ok {
				continue
			}
			fill := strconv.FormatFloat(median, 'g', -1, 64)
			for row := 0; row < t.NumRows(); row++ {
				if dataset.Missing(t.Cell(row, col)) {
					t.SetCell(row, col, fill)
				}
			}
		} else {
			mode, ok := t.Mode(col)
			if !ok {
				continue
			}
			for row := 0; row < t.NumRows(); row++ {
				if dataset.Missing(t.Cell(row, col)) {
					t.SetCell(row, col, mode)
				}
			}
		}
	}

	// Hard validity filters. Violating rows are dropped, never repaired.
	ageCol := t.ColumnIndex("age")
	incomeCol := t.ColumnIndex("annual_income")
	loanCol := t.ColumnIndex("loan_amount")
	employedCol := t.ColumnIndex("years_employed")

	before := t.NumRows()
	result.RowsDropped = t.Filter(func(row int) bool {
		age, ok := t.Float(row, ageCol)
		if !ok || age < 18 || age > 100 {
			return false
		}
		income, ok := t.Float(row, incomeCol)
		if !ok || income <= 0 {
			return false
		}
		loan, ok := t.Float(row, loanCol)
		if !ok || loan <= 0 {
			return false
		}
		employed, ok := t.Float(row, employedCol)
		if !ok || employed < 0 {
			return false
		}
		return true
	})
	if result.RowsDropped > 0 {
		metrics.PipelineRowsDropped.WithLabelValues("range_violation").Add(float64(result.RowsDropped))
	}

	if t.NumRows() == 0 {
		return errors.NewDatasetEmptyError(p.rawPath)
	}

	p.logger.Info("data cleaned", map[string]interface{}{
		"rowsBefore":        before,
		"rowsAfter":         t.NumRows(),
		"duplicatesRemoved": result.DuplicatesRemoved,
		"rowsDropped":       result.RowsDropped,
	})
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (p *Pipeline) engineerFeatures() error {
	t := p.table
	incomeCol := t.ColumnIndex("annual_income")
	debtCol := t.ColumnIndex("monthly_debt")
	loanCol := t.ColumnIndex("loan_amount")
	historyCol := t.ColumnIndex("credit_history_length")
	ageCol := t.ColumnIndex("age")
	employedCol := t.ColumnIndex("years_employed")

	n := t.NumRows()
	dti := make([]string, n)
	cti := make([]string, n)
	monthlyIncome := make([]string, n)
	debtBurden := make([]string, n)
	creditQuality := make([]string, n)
	ageGroup := make([]string, n)
	incomeGroup := make([]string, n)
	stability := make([]string, n)

	for row := 0; row < n; row++ {
		income, _ := t.Float(row, incomeCol)
		debt, _ := t.Float(row, debtCol)
		loan, _ := t.Float(row, loanCol)
		history, _ := t.Float(row, historyCol)
		age, _ := t.Float(row, ageCol)
		employed, _ := t.Float(row, employedCol)

		d := features.DeriveRatios(income, debt, loan, history)
		dti[row] = formatFloat(d.DebtToIncomeRatio)
		cti[row] = formatFloat(d.CreditToIncomeRatio)
		monthlyIncome[row] = formatFloat(d.MonthlyIncome)
		debtBurden[row] = formatFloat(d.DebtBurden)
		creditQuality[row] = formatFloat(d.CreditQualityScore)

		ageGroup[row] = bucketAge(age)
		incomeGroup[row] = bucketIncome(income)
		stability[row] = bucketStability(employed)
	}

	cols := []struct {
		name   string
		values []string
	}{
		{"debt_to_income_ratio", dti},
		{"credit_to_income_ratio", cti},
		{"monthly_income", monthlyIncome},
		{"debt_burden", debtBurden},
		{"age_group", ageGroup},
		{"income_group", incomeGroup},
		{"employment_stability", stability},
		{"credit_quality_score", creditQuality},
	}
	for _, c := range cols {
		if err := t.AddColumn(c.name, c.values); err != nil {
			return errors.NewConfigurationError(err.Error())
		}
	}

	p.logger.Info("features engineered", map[string]interface{}{
		"derived": []string{
			"debt_to_income_ratio", "credit_to_income_ratio", "monthly_income",
			"debt_burden", "age_group", "income_group", "employment_stability",
			"credit_quality_score",
		},
	})
	return nil
}

// Reporting-only buckets; the model never sees these columns.

func bucketAge(age float64) string {
	switch {
	case age <= 25:
		return "18-25"
	case age <= 35:
		return "26-35"
	case age <= 45:
		return "36-45"
	case age <= 55:
		return "46-55"
	default:
		return "56+"
	}
}

func bucketIncome(income float64) string {
	switch {
	case income <= 40000:
		return "Low"
	case income <= 60000:
		return "Medium"
	case income <= 80000:
		return "High"
	case income <= 100000:
		return "Very High"
	default:
		return "Ultra High"
	}
}

func bucketStability(yearsEmployed float64) string {
	switch {
	case yearsEmployed >= 10:
		return "Stable"
	case yearsEmployed >= 5:
		return "Moderate"
	default:
		return "New"
	}
}

func (p *Pipeline) encodeCategorical() error {
	t := p.table
	n := t.NumRows()

	encoders := []struct {
		source string
		target string
		encode func(string) float64
	}{
		{"gender", "gender_encoded", features.EncodeGender},
		{"employment_status", "employment_status_encoded", features.EncodeEmploymentStatus},
		{"payment_history", "payment_history_encoded", features.EncodePaymentHistory},
		{"marital_status", "marital_status_encoded", features.EncodeMaritalStatus},
		{"education", "education_encoded", features.EncodeEducation},
		{"home_ownership", "home_ownership_encoded", features.EncodeHomeOwnership},
	}

	for _, enc := range encoders {
		src := t.ColumnIndex(enc.source)
		values := make([]string, n)
		for row := 0; row < n; row++ {
			values[row] = formatFloat(enc.encode(strings.TrimSpace(t.Cell(row, src))))
		}
		if err := t.AddColumn(enc.target, values); err != nil {
			return errors.NewConfigurationError(err.Error())
		}
	}

	// One-hot expand loan_purpose. Column order is sorted so reruns over
	// the same data produce identical layouts.
	purposeCol := t.ColumnIndex("loan_purpose")
	purposes := map[string]struct{}{}
	for row := 0; row < n; row++ {
		if v := strings.TrimSpace(t.Cell(row, purposeCol)); v != "" {
			purposes[v] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(purposes))
	for v := range purposes {
		sorted = append(sorted, v)
	}
	sort.Strings(sorted)

	for _, purpose := range sorted {
		values := make([]string, n)
		for row := 0; row < n; row++ {
			if strings.TrimSpace(t.Cell(row, purposeCol)) == purpose {
				values[row] = "1"
			} else {
				values[row] = "0"
			}
		}
		if err := t.AddColumn(features.LoanPurposeColumn(purpose), values); err != nil {
			return errors.NewConfigurationError(err.Error())
		}
	}

	p.logger.Info("categorical variables encoded", map[string]interface{}{
		"loanPurposeCategories": len(sorted),
	})
	return nil
}

func (p *Pipeline) labelRisk() error {
	t := p.table
	n := t.NumRows()

	incomeCol := t.ColumnIndex("annual_income")
	dtiCol := t.ColumnIndex("debt_to_income_ratio")
	employedCol := t.ColumnIndex("years_employed")
	historyCol := t.ColumnIndex("credit_history_length")
	paymentCol := t.ColumnIndex("payment_history")

	scores := make([]string, n)
	levels := make([]string, n)
	distribution := map[string]int{}

	for row := 0; row < n; row++ {
		income, _ := t.Float(row, incomeCol)
		dti, _ := t.Float(row, dtiCol)
		employed, _ := t.Float(row, employedCol)
		history, _ := t.Float(row, historyCol)
		payment := strings.TrimSpace(t.Cell(row, paymentCol))

		score := RiskScore(income, dti, employed, history, payment)
		level := RiskLevelFor(score)

		scores[row] = strconv.Itoa(score)
		levels[row] = level
		distribution[level]++
	}

	if err := t.AddColumn("risk_score", scores); err != nil {
		return errors.NewConfigurationError(err.Error())
	}
	if err := t.AddColumn("risk_level", levels); err != nil {
		return errors.NewConfigurationError(err.Error())
	}

	p.logger.Info("risk labels created", map[string]interface{}{
		"distribution": distribution,
	})
	return nil
}

// RiskScore is the additive heuristic label generator. It is not a
// learned prediction; given the same row it must reproduce the same
// score bit for bit.
func RiskScore(annualIncome, debtToIncomeRatio, yearsEmployed, creditHistoryLength float64, paymentHistory string) int {
	score := 0

	if annualIncome < 40000 {
		score += 2
	}
	if annualIncome > 80000 {
		score--
	}

	if debtToIncomeRatio > 0.4 {
		score += 2
	}
	if debtToIncomeRatio < 0.2 {
		score--
	}

	if yearsEmployed < 2 {
		score++
	}
	if yearsEmployed > 10 {
		score--
	}

	if creditHistoryLength < 3 {
		score++
	}
	if creditHistoryLength > 10 {
		score--
	}

	switch paymentHistory {
	case "Poor":
		score += 2
	case "Excellent":
		score--
	}

	return score
}

// RiskLevelFor buckets a risk score: <=0 Low, 1-2 Medium, >2 High.
func RiskLevelFor(score int) string {
	switch {
	case score <= 0:
		return "Low"
	case score <= 2:
		return "Medium"
	default:
		return "High"
	}
}
