// internal/scoring/engine_test.go

package scoring

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-scoring/internal/common/config"
	"credit-scoring/internal/common/logger"
	"credit-scoring/internal/ml"
	"credit-scoring/internal/models"
	"credit-scoring/internal/modelstore"
	"credit-scoring/internal/training"
)

func TestFallback_Rules(t *testing.T) {
	tests := []struct {
		name      string
		income    float64
		debt      float64
		wantScore int
		wantRisk  string
	}{
		{"high income low debt", 60000, 800, 750, models.RiskLow},
		{"low income low debt", 40000, 800, 700, models.RiskMedium},
		{"high income high debt", 60000, 1500, 700, models.RiskMedium},
		{"low income high debt", 40000, 1500, 650, models.RiskMedium},
		{"boundary income not rewarded", 50000, 800, 700, models.RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fallback(models.Applicant{
				FullName:     "Test Applicant",
				AnnualIncome: tt.income,
				MonthlyDebt:  tt.debt,
			})

			assert.Equal(t, tt.wantScore, got.CreditScore)
			assert.Equal(t, tt.wantRisk, got.RiskLevel)
			assert.InDelta(t, 0.1, got.DefaultProbability, 1e-12)
			assert.Equal(t, models.ProvenanceRuleBased, got.Provenance)
			assert.Equal(t, "rule-based", got.ModelUsed)
		})
	}
}

func TestEngine_EmptyStoreFallsBack(t *testing.T) {
	log := logger.NewTestLogger(t)
	store := modelstore.NewStore(t.TempDir(), log)

	engine := NewEngine(store, log)
	assert.False(t, engine.ModelLoaded())
	assert.Empty(t, engine.ModelVersion())

	got := engine.Score(models.Applicant{AnnualIncome: 60000, MonthlyDebt: 800})
	assert.Equal(t, 750, got.CreditScore)
	assert.Equal(t, models.ProvenanceRuleBased, got.Provenance)
}

// trainBundle trains a real bundle into storeDir from a linearly
// separable dataset keyed on income and debt.
func trainBundle(t *testing.T, storeDir string) *modelstore.Bundle {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("annual_income,monthly_debt,loan_amount,default\n")
	for i := 0; i < 20; i++ {
		sb.WriteString(fmt.Sprintf("%d,%d,%d,0\n", 95000+i*400, 300+i*10, 10000+i*200))
	}
	for i := 0; i < 20; i++ {
		sb.WriteString(fmt.Sprintf("%d,%d,%d,1\n", 14000+i*250, 2500+i*40, 30000+i*300))
	}
	csvPath := filepath.Join(t.TempDir(), "applicants_ml_ready.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sb.String()), 0o644))

	cfg := &config.Config{
		Data: config.DataConfig{LabelColumn: "default"},
		Training: config.TrainingConfig{
			Seed:         42,
			TestFraction: 0.25,
			Logistic:     config.LogisticConfig{Epochs: 300, LearningRate: 0.5},
			Tree:         config.TreeConfig{MaxDepth: 4, MinLeafSize: 2},
		},
		Models:  config.ModelsConfig{StoreDir: storeDir},
		Scoring: config.ScoringConfig{DecisionThreshold: 0.5},
	}

	log := logger.NewTestLogger(t)
	trainer := training.NewTrainer(cfg, modelstore.NewStore(storeDir, log), log)
	bundle, err := trainer.Run(csvPath)
	require.NoError(t, err)
	return bundle
}

func TestEngine_ScoresWithTrainedModel(t *testing.T) {
	storeDir := t.TempDir()
	bundle := trainBundle(t, storeDir)

	log := logger.NewTestLogger(t)
	engine := NewEngine(modelstore.NewStore(storeDir, log), log)
	require.True(t, engine.ModelLoaded())
	assert.Equal(t, bundle.Version, engine.ModelVersion())

	strong := engine.Score(models.Applicant{
		FullName:     "Strong Applicant",
		AnnualIncome: 98000,
		MonthlyDebt:  350,
		LoanAmount:   12000,
	})
	weak := engine.Score(models.Applicant{
		FullName:     "Weak Applicant",
		AnnualIncome: 15000,
		MonthlyDebt:  3000,
		LoanAmount:   32000,
	})

	for _, got := range []models.ScoreResult{strong, weak} {
		assert.Equal(t, models.ProvenanceModel, got.Provenance)
		assert.Equal(t, bundle.Info.BestModel, got.ModelUsed)
		assert.GreaterOrEqual(t, got.CreditScore, 300)
		assert.LessOrEqual(t, got.CreditScore, 850)
	}
	assert.Greater(t, strong.CreditScore, weak.CreditScore)
	assert.Less(t, strong.DefaultProbability, weak.DefaultProbability)
}

func TestEngine_LoadsLatestVersion(t *testing.T) {
	storeDir := t.TempDir()
	log := logger.NewTestLogger(t)
	store := modelstore.NewStore(storeDir, log)

	for _, version := range []string{"20240101_0000", "20240601_1200"} {
		require.NoError(t, store.Save(riggedBundle(version, 0)))
	}

	engine := NewEngine(store, log)
	require.True(t, engine.ModelLoaded())
	assert.Equal(t, "20240601_1200", engine.ModelVersion())
}

// riggedBundle builds a loadable single-feature bundle whose logistic
// model emits a fixed probability via its bias term.
func riggedBundle(version string, bias float64) *modelstore.Bundle {
	lr := ml.NewLogisticRegression(1, 0.1, 0)
	lr.Weights = []float64{0}
	lr.Bias = bias

	return &modelstore.Bundle{
		Version: version,
		Info: modelstore.ModelInfo{
			Timestamp:    version,
			Models:       []string{ml.NameLogisticRegression},
			NumFeatures:  1,
			FeatureNames: []string{"annual_income"},
			Metrics:      map[string]ml.Metrics{ml.NameLogisticRegression: {ROCAUC: 0.5}},
			BestModel:    ml.NameLogisticRegression,
		},
		Classifiers: []modelstore.NamedClassifier{{Name: ml.NameLogisticRegression, Model: lr}},
		Scaler:      &ml.StandardScaler{Mean: []float64{0}, Std: []float64{1}},
		Features:    []string{"annual_income"},
	}
}

func TestEngine_ClampsScoreAndFlagsHighRisk(t *testing.T) {
	storeDir := t.TempDir()
	log := logger.NewTestLogger(t)
	store := modelstore.NewStore(storeDir, log)

	// Large positive bias drives p to ~1, so the raw score of 300 sits
	// exactly on the floor and the risk level is High.
	require.NoError(t, store.Save(riggedBundle("20240101_120000", 20)))

	engine := NewEngine(store, log)
	require.True(t, engine.ModelLoaded())

	got := engine.Score(models.Applicant{AnnualIncome: 60000, MonthlyDebt: 800})
	assert.Equal(t, models.ProvenanceModel, got.Provenance)
	assert.Equal(t, 300, got.CreditScore)
	assert.Equal(t, models.RiskHigh, got.RiskLevel)

	resp := CalculateCreditScore(engine, models.Applicant{
		FullName:     "Risky Applicant",
		AnnualIncome: 60000,
		MonthlyDebt:  800,
	})
	assert.Equal(t, []string{"High Debt"}, resp.RiskFactors)
	assert.Equal(t, models.RiskHigh, resp.RiskLevel)
}

func TestEngine_InferenceErrorFallsBackPerRequest(t *testing.T) {
	storeDir := t.TempDir()
	log := logger.NewTestLogger(t)
	store := modelstore.NewStore(storeDir, log)

	// The manifest names two features but the scaler was fitted on one,
	// so every scaling attempt fails with a dimension mismatch. The
	// engine must keep the bundle and degrade each request to the
	// rule-based score instead of erroring.
	broken := riggedBundle("20240101_120000", 0)
	broken.Info.NumFeatures = 2
	broken.Info.FeatureNames = []string{"annual_income", "monthly_debt"}
	broken.Features = []string{"annual_income", "monthly_debt"}
	require.NoError(t, store.Save(broken))

	engine := NewEngine(store, log)
	require.True(t, engine.ModelLoaded())

	got := engine.Score(models.Applicant{AnnualIncome: 60000, MonthlyDebt: 800})
	assert.Equal(t, models.ProvenanceRuleBased, got.Provenance)
	assert.Equal(t, 750, got.CreditScore)
	assert.Equal(t, "rule-based", got.ModelUsed)
	assert.InDelta(t, 0.1, got.DefaultProbability, 1e-12)
}

func TestCalculateCreditScore_FallbackResponse(t *testing.T) {
	log := logger.NewTestLogger(t)
	engine := NewEngine(modelstore.NewStore(t.TempDir(), log), log)

	resp := CalculateCreditScore(engine, models.Applicant{
		FullName:     "Jordan Reyes",
		AnnualIncome: 60000,
		MonthlyDebt:  800,
	})

	assert.Equal(t, 750, resp.CreditScore)
	assert.Equal(t, models.RiskLow, resp.RiskLevel)
	assert.InDelta(t, 0.9, resp.ApprovalProbability, 1e-12)
	assert.Empty(t, resp.RiskFactors)
	assert.Equal(t, "rule-based", resp.ModelVersion)
}
