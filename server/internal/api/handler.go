package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/housepredict/housepredict/server/internal/artifact"
	"github.com/housepredict/housepredict/server/internal/metrics"
	"github.com/housepredict/housepredict/server/internal/predict"
)

// maxBodyBytes bounds the request body of POST /predict.
const maxBodyBytes = 1 << 20

// Handler is the HTTP handler for /predict, /healthz and /metrics.
type Handler struct {
	predictor *predict.Predictor
	artifacts *artifact.Artifacts
	metrics   *metrics.Metrics
	mux       *http.ServeMux
}

// New creates a Handler over loaded artifacts and registers all routes.
// The returned handler logs and counts every request.
func New(a *artifact.Artifacts, m *metrics.Metrics) http.Handler {
	h := &Handler{
		predictor: predict.FromArtifacts(a),
		artifacts: a,
		metrics:   m,
		mux:       http.NewServeMux(),
	}

	h.mux.HandleFunc("/predict", h.predict)
	h.mux.HandleFunc("/healthz", h.health)
	h.mux.Handle("/metrics", m)

	return withRequestLog(h.mux, m)
}

// --- route handlers ---------------------------------------------------------

// predict handles POST /predict.
func (h *Handler) predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var raw map[string]json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonErr(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		jsonErr(w, http.StatusUnprocessableEntity, "request body must be a JSON object: "+err.Error())
		return
	}
	if raw == nil {
		jsonErr(w, http.StatusUnprocessableEntity, "request body must be a JSON object")
		return
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonErr(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		jsonErr(w, http.StatusUnprocessableEntity, "request body must hold a single JSON object")
		return
	}

	rec, err := decodeHouse(raw)
	if err != nil {
		jsonErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	start := time.Now()
	res, perr := h.predictor.Handle(rec)
	elapsed := time.Since(start)

	if perr != nil {
		h.metrics.ObservePrediction(false, string(perr.Stage), elapsed)
		slog.Warn("prediction failed",
			"request_id", requestID(r.Context()),
			"stage", perr.Stage,
			"err", perr.Err,
		)
	} else {
		h.metrics.ObservePrediction(true, "", elapsed)
		slog.Debug("prediction served",
			"request_id", requestID(r.Context()),
			"prediction", *res.Prediction,
			"duration", elapsed,
		)
	}
	jsonResp(w, http.StatusOK, res)
}

// health handles GET /healthz.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Features: predict.NumFeatures,
		Model:    h.artifacts.ModelKind,
		Scaler:   h.artifacts.ScalerKind,
		LoadedAt: h.artifacts.LoadedAt.UTC().Format(time.RFC3339),
	})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
