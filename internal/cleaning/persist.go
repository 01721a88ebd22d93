// internal/cleaning/persist.go
package cleaning

import (
	"fmt"
	"strings"
	"time"

	"credit-scoring/internal/common/errors"
	"credit-scoring/internal/dataset"
	"credit-scoring/internal/features"
)

func (p *Pipeline) persist(result *Result) error {
	t := p.table

	// Full cleaned dataset.
	if err := t.WriteCSV(p.processedPath); err != nil {
		return errors.NewOutputWriteFailedError(p.processedPath, err)
	}
	result.ProcessedPath = p.processedPath

	// Model-ready numeric subset: fixed column list, one-hot loan
	// purpose columns, label last.
	mlColumns := append([]string(nil), features.BaseNumericColumns...)
	for _, col := range t.Columns {
		if strings.HasPrefix(col, "loan_purpose_") {
			mlColumns = append(mlColumns, col)
		}
	}
	mlColumns = append(mlColumns, "default")

	mlPath := replaceSuffix(p.processedPath, ".csv", "_ml_ready.csv")
	if err := t.Select(mlColumns).WriteCSV(mlPath); err != nil {
		return errors.NewOutputWriteFailedError(mlPath, err)
	}
	result.MLReadyPath = mlPath

	// Human-readable statistical summary.
	summaryPath := replaceSuffix(p.processedPath, ".csv", "_summary.txt")
	if err := dataset.WriteFileAtomic(summaryPath, []byte(p.buildSummary())); err != nil {
		return errors.NewOutputWriteFailedError(summaryPath, err)
	}
	result.SummaryPath = summaryPath

	p.logger.Info("processed data saved", map[string]interface{}{
		"processed": p.processedPath,
		"mlReady":   mlPath,
		"summary":   summaryPath,
	})
	return nil
}

func replaceSuffix(path, suffix, replacement string) string {
	if strings.HasSuffix(path, suffix) {
		return strings.TrimSuffix(path, suffix) + replacement
	}
	return path + replacement
}

func (p *Pipeline) buildSummary() string {
	t := p.table
	var b strings.Builder
	rule := strings.Repeat("=", 50)

	fmt.Fprintf(&b, "%s\nDATA PROCESSING SUMMARY\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Processing Date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total Records: %d\n", t.NumRows())
	fmt.Fprintf(&b, "Total Features: %d\n\n", t.NumCols())

	b.WriteString("Feature List:\n")
	for _, col := range t.Columns {
		fmt.Fprintf(&b, "  - %s\n", col)
	}

	fmt.Fprintf(&b, "\n%s\nBASIC STATISTICS\n%s\n", rule, rule)
	for i, col := range t.Columns {
		if !t.IsNumeric(i) {
			continue
		}
		d, ok := t.DescribeColumn(i)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: count=%d mean=%.4f std=%.4f min=%.4f max=%.4f\n",
			col, d.Count, d.Mean, d.Std, d.Min, d.Max)
	}

	return b.String()
}
