package predict

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/housepredict/housepredict/pkg/types"
	"github.com/housepredict/housepredict/server/internal/artifact"
)

type errModel struct{}

func (errModel) Predict([]float64) ([]float64, error) {
	return nil, errors.New("input contains 15 features, expected 16")
}

type emptyModel struct{}

func (emptyModel) Predict([]float64) ([]float64, error) { return []float64{}, nil }

type nanModel struct{}

func (nanModel) Predict([]float64) ([]float64, error) { return []float64{math.NaN()}, nil }

// panicModel panics on its first call only.
type panicModel struct {
	mu     sync.Mutex
	called bool
}

func (m *panicModel) Predict(v []float64) ([]float64, error) {
	m.mu.Lock()
	first := !m.called
	m.called = true
	m.mu.Unlock()
	if first {
		var idx []int
		_ = idx[len(v)] // index out of range
	}
	return sumModel{}.Predict(v)
}

type panicScaler struct{}

func (panicScaler) Transform(float64) (float64, error) { panic("scaler state corrupted") }

func TestPredict_SumModelReference(t *testing.T) {
	p := New(identityScaler{}, sumModel{})
	got, err := p.Predict(referenceHouse())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 3012 {
		t.Errorf("prediction: got %v, want 3012", got)
	}
}

func TestHandle_Success(t *testing.T) {
	res, pe := New(identityScaler{}, sumModel{}).Handle(referenceHouse())
	if pe != nil {
		t.Fatalf("expected nil error, got %v", pe)
	}
	if !res.OK() {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if *res.Prediction != 3012 {
		t.Errorf("prediction: got %v, want 3012", *res.Prediction)
	}
	if res.Error != "" {
		t.Errorf("error: got %q, want empty", res.Error)
	}
}

func TestHandle_ModelError(t *testing.T) {
	res, pe := New(identityScaler{}, errModel{}).Handle(referenceHouse())
	if pe == nil || pe.Stage != StageInference {
		t.Errorf("classified error: got %v, want inference stage", pe)
	}
	if res.OK() {
		t.Fatal("expected error payload, got prediction")
	}
	if !strings.HasPrefix(res.Error, "inference: ") {
		t.Errorf("error: got %q, want inference prefix", res.Error)
	}
	if !strings.Contains(res.Error, "expected 16") {
		t.Errorf("error should carry the cause, got %q", res.Error)
	}
}

func TestHandle_ScalerError(t *testing.T) {
	res, _ := New(failingScaler{}, sumModel{}).Handle(referenceHouse())
	if !strings.HasPrefix(res.Error, "scale: ") {
		t.Errorf("error: got %q, want scale prefix", res.Error)
	}
}

func TestPredict_EmptyOutput(t *testing.T) {
	_, err := New(identityScaler{}, emptyModel{}).Predict(referenceHouse())
	var pe *PredictionError
	if !errors.As(err, &pe) || pe.Stage != StageInference {
		t.Fatalf("expected inference PredictionError, got %v", err)
	}
}

func TestPredict_NonFiniteOutput(t *testing.T) {
	_, err := New(identityScaler{}, nanModel{}).Predict(referenceHouse())
	var pe *PredictionError
	if !errors.As(err, &pe) || pe.Stage != StageInference {
		t.Fatalf("expected inference PredictionError, got %v", err)
	}
}

func TestPredict_ScalerPanicRecovered(t *testing.T) {
	_, err := New(panicScaler{}, sumModel{}).Predict(referenceHouse())
	var pe *PredictionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PredictionError, got %T (%v)", err, err)
	}
	if pe.Stage != StageScale {
		t.Errorf("stage: got %q, want scale", pe.Stage)
	}
}

func TestHandle_PanicDoesNotAffectNextRequest(t *testing.T) {
	p := New(identityScaler{}, &panicModel{})

	first, _ := p.Handle(referenceHouse())
	if first.OK() {
		t.Fatal("first request: expected error payload, got prediction")
	}
	if !strings.HasPrefix(first.Error, "inference: panic") {
		t.Errorf("first request: got %q, want inference panic", first.Error)
	}

	second, _ := p.Handle(referenceHouse())
	if !second.OK() {
		t.Fatalf("second request: expected prediction, got %q", second.Error)
	}
	if *second.Prediction != 3012 {
		t.Errorf("second request: got %v, want 3012", *second.Prediction)
	}
}

func TestPredict_Concurrent(t *testing.T) {
	p := New(identityScaler{}, sumModel{})
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Predict(referenceHouse())
			if err != nil {
				errs <- err
				return
			}
			if got != 3012 {
				errs <- errors.New("unexpected prediction")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// TestFromArtifacts_LinearModel runs the full path over artifacts loaded
// from disk: a min-max scaler and a linear model with known coefficients.
func TestFromArtifacts_LinearModel(t *testing.T) {
	dir := t.TempDir()
	scalerPath := filepath.Join(dir, "scaler.json")
	modelPath := filepath.Join(dir, "model.json")

	if err := os.WriteFile(scalerPath, []byte(`{"kind": "minmax", "data_min": [0], "data_max": [2000]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	// Only area_bedrooms (index 12) and amenities_count (index 15) carry weight.
	model := `{
  "kind": "linear",
  "feature_names": ["area", "bedrooms", "bathrooms", "stories", "parking",
    "furnishingstatus", "mainroad_yes", "guestroom_yes", "basement_yes",
    "hotwaterheating_yes", "airconditioning_yes", "prefarea_yes",
    "area_bedrooms", "stories_bathrooms", "luxury_index", "amenities_count"],
  "coefficients": [0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1000, 0, 0, 10],
  "intercept": 50000
}`
	if err := os.WriteFile(modelPath, []byte(model), 0o600); err != nil {
		t.Fatal(err)
	}

	a, err := artifact.Load(modelPath, scalerPath, FeatureNames())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// scaled area = 0.5, area_bedrooms = 1, amenities_count = 2
	// 50000 + 1000*1 + 10*2 = 51020
	got, err := FromArtifacts(a).Predict(referenceHouse())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 51020 {
		t.Errorf("prediction: got %v, want 51020", got)
	}
}

func TestHandle_ZeroPredictionIsSuccess(t *testing.T) {
	res, _ := New(identityScaler{}, sumModel{}).Handle(types.HouseData{})
	if !res.OK() {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if *res.Prediction != 0 {
		t.Errorf("prediction: got %v, want 0", *res.Prediction)
	}
}
