// cmd/scoring-server/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"credit-scoring/internal/common/config"
	"credit-scoring/internal/common/logger"
	"credit-scoring/internal/common/observability"
	"credit-scoring/internal/models"
	"credit-scoring/internal/modelstore"
	"credit-scoring/internal/scoring"
)

const scoreRequestSchema = `{
	"type": "object",
	"required": ["full_name", "annual_income", "monthly_debt", "loan_amount"],
	"properties": {
		"full_name":     {"type": "string", "minLength": 1},
		"annual_income": {"type": "number", "minimum": 0},
		"monthly_debt":  {"type": "number", "minimum": 0},
		"loan_amount":   {"type": "number", "minimum": 0}
	},
	"additionalProperties": false
}`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("scoring-server")
	defer obs.Shutdown()

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(scoreRequestSchema))
	if err != nil {
		zapLog.Fatal("score request schema invalid", zap.Error(err))
	}

	// The engine is built once; a model trained after startup is picked
	// up by restarting the server.
	store := modelstore.NewStore(cfg.Models.StoreDir, log)
	engine := scoring.NewEngine(store, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/score", scoreHandler(engine, schema, obs, log))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "healthy",
			"model_loaded": engine.ModelLoaded(),
			"model":        engine.ModelVersion(),
			"time":         time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		zapLog.Info("scoring server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("scoring server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown error", zap.Error(err))
	}
	zapLog.Info("scoring server stopped gracefully")
}

func scoreHandler(engine *scoring.Engine, schema *gojsonschema.Schema, obs *observability.Observability, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "only POST is supported")
			return
		}

		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		reqLog := log.WithFields(map[string]interface{}{"requestId": requestID})

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, "unable to read request body")
			return
		}

		validation, err := schema.Validate(gojsonschema.NewBytesLoader(body))
		if err != nil {
			writeError(w, http.StatusBadRequest, "request body is not valid JSON")
			return
		}
		if !validation.Valid() {
			details := make([]string, 0, len(validation.Errors()))
			for _, e := range validation.Errors() {
				details = append(details, e.String())
			}
			reqLog.Warn("score request rejected", map[string]interface{}{"violations": details})
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":   "invalid score request",
				"details": details,
			})
			return
		}

		var applicant models.Applicant
		if err := json.Unmarshal(body, &applicant); err != nil {
			writeError(w, http.StatusBadRequest, "unable to decode applicant")
			return
		}

		start := time.Now()
		resp := scoring.CalculateCreditScore(engine, applicant)

		provenance := string(models.ProvenanceModel)
		if resp.ModelVersion == "rule-based" {
			provenance = string(models.ProvenanceRuleBased)
		}
		obs.RecordScore(r.Context(), provenance)
		obs.RecordScoreDuration(r.Context(), time.Since(start), provenance)

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
