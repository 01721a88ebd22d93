// internal/scoring/engine.go

// Package scoring serves credit scores from the latest trained model,
// falling back to a deterministic rule-based score whenever no model is
// usable. A scoring call never fails: every path ends in a well-formed
// result.
package scoring

import (
	"math"
	"time"

	"credit-scoring/internal/common/logger"
	"credit-scoring/internal/common/metrics"
	"credit-scoring/internal/features"
	"credit-scoring/internal/models"
	"credit-scoring/internal/modelstore"
)

const (
	scoreMin = 300
	scoreMax = 850
)

// Engine scores applicants against the bundle loaded at construction
// time. It is immutable after NewEngine returns; picking up a newer
// bundle means constructing a new engine.
type Engine struct {
	bundle *modelstore.LoadedBundle
	logger logger.Logger
}

// NewEngine loads the most recent artifact bundle. Discovery or
// deserialization failures are not fatal: the engine starts in
// rule-based fallback mode and says so once, loudly.
func NewEngine(store *modelstore.Store, log logger.Logger) *Engine {
	e := &Engine{
		logger: log.WithFields(map[string]interface{}{"component": "scoring"}),
	}

	bundle, err := store.LoadLatest()
	if err != nil {
		e.logger.WithError(err).Warn("no usable model bundle, scoring is rule-based only", map[string]interface{}{
			"storeDir": store.Dir(),
		})
		return e
	}

	e.bundle = bundle
	e.logger.Info("model bundle loaded", map[string]interface{}{
		"version":   bundle.Version,
		"bestModel": bundle.BestName,
		"features":  len(bundle.Features),
	})
	return e
}

// ModelLoaded reports whether a trained model backs this engine.
func (e *Engine) ModelLoaded() bool { return e.bundle != nil }

// ModelVersion returns the loaded bundle version, empty in fallback mode.
func (e *Engine) ModelVersion() string {
	if e.bundle == nil {
		return ""
	}
	return e.bundle.Version
}

// Score produces a credit score for one applicant. Model inference is
// attempted when a bundle is loaded; any error on that path downgrades
// this single request to the rule-based fallback.
func (e *Engine) Score(app models.Applicant) models.ScoreResult {
	start := time.Now()
	defer func() {
		metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	}()

	if e.bundle == nil {
		metrics.ScoringFallbacks.WithLabelValues("no_model").Inc()
		return e.record(Fallback(app))
	}

	result, err := e.predict(app)
	if err != nil {
		e.logger.WithError(err).Warn("model inference failed, using rule-based score", nil)
		metrics.ScoringFallbacks.WithLabelValues("inference_error").Inc()
		return e.record(Fallback(app))
	}
	return e.record(result)
}

func (e *Engine) record(r models.ScoreResult) models.ScoreResult {
	metrics.ScoringRequests.WithLabelValues(string(r.Provenance)).Inc()
	return r
}

func (e *Engine) predict(app models.Applicant) (models.ScoreResult, error) {
	vec := features.BuildInferenceFeatures(app)
	vec = features.Reconcile(vec, e.bundle.Features)

	scaled, err := e.bundle.Scaler.TransformRow(vec.Values())
	if err != nil {
		return models.ScoreResult{}, err
	}

	p, err := e.bundle.Best.PredictProba(scaled)
	if err != nil {
		return models.ScoreResult{}, err
	}

	score := clampScore(int(math.Round(850 - p*550)))
	return models.ScoreResult{
		CreditScore:        score,
		RiskLevel:          riskLevel(score),
		DefaultProbability: p,
		Provenance:         models.ProvenanceModel,
		ModelUsed:          e.bundle.BestName,
	}, nil
}

func clampScore(score int) int {
	if score < scoreMin {
		return scoreMin
	}
	if score > scoreMax {
		return scoreMax
	}
	return score
}

func riskLevel(score int) string {
	switch {
	case score >= 700:
		return models.RiskLow
	case score >= 600:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// CalculateCreditScore is the inbound operation used by the serving
// layer. It logs who is being scored and enriches the engine result
// with the caller-facing fields.
func CalculateCreditScore(e *Engine, app models.Applicant) models.ScoreResponse {
	e.logger.Info("calculating credit score", map[string]interface{}{
		"applicant": app.FullName,
	})

	result := e.Score(app)

	riskFactors := []string{}
	if result.RiskLevel == models.RiskHigh {
		riskFactors = append(riskFactors, "High Debt")
	}

	return models.ScoreResponse{
		CreditScore:         result.CreditScore,
		RiskLevel:           result.RiskLevel,
		ApprovalProbability: 1 - result.DefaultProbability,
		RiskFactors:         riskFactors,
		ModelVersion:        result.ModelUsed,
	}
}
