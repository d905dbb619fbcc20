package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Scaler maps a raw value to its scaled value.
type Scaler interface {
	Transform(x float64) (float64, error)
}

// Model maps a feature vector to its predictions. Implementations return one
// output per call since the vector describes a single row.
type Model interface {
	Predict(features []float64) ([]float64, error)
}

// Artifacts is the pair of fitted objects the predictor runs against.
type Artifacts struct {
	Scaler     Scaler
	Model      Model
	ScalerKind string
	ModelKind  string
	LoadedAt   time.Time
}

// StartupError reports an artifact that could not be loaded. It is never
// recovered: the process must exit instead of serving partially initialised.
type StartupError struct {
	Artifact string // "model" | "scaler"
	Path     string
	Err      error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("load %s artifact %q: %v", e.Artifact, e.Path, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// Load reads the scaler and the model. features is the positional layout
// the predictor assembles; the model must have been fit against it.
// Any failure is returned as a *StartupError.
func Load(modelPath, scalerPath string, features []string) (*Artifacts, error) {
	scaler, scalerKind, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, &StartupError{Artifact: "scaler", Path: scalerPath, Err: err}
	}
	model, modelKind, err := LoadModel(modelPath, features)
	if err != nil {
		return nil, &StartupError{Artifact: "model", Path: modelPath, Err: err}
	}
	return &Artifacts{
		Scaler:     scaler,
		Model:      model,
		ScalerKind: scalerKind,
		ModelKind:  modelKind,
		LoadedAt:   time.Now().UTC(),
	}, nil
}

// decodeStrict unmarshals a whole file into v, rejecting unknown fields and
// trailing data.
func decodeStrict(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return fmt.Errorf("decode json: trailing data after document")
	}
	return nil
}
