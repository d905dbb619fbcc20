package predict

import (
	"errors"
	"fmt"
	"math"

	"github.com/housepredict/housepredict/pkg/types"
	"github.com/housepredict/housepredict/server/internal/artifact"
)

// Predictor runs the feature transform and the model for one record at a time.
type Predictor struct {
	scaler artifact.Scaler
	model  artifact.Model
}

// New returns a Predictor over a loaded scaler and model. Neither is mutated.
func New(scaler artifact.Scaler, model artifact.Model) *Predictor {
	return &Predictor{scaler: scaler, model: model}
}

// FromArtifacts is New over the output of artifact.Load.
func FromArtifacts(a *artifact.Artifacts) *Predictor {
	return New(a.Scaler, a.Model)
}

// Predict returns the predicted price for rec. Any failure, including a
// panic inside the scaler or the model, is returned as a *PredictionError.
func (p *Predictor) Predict(rec types.HouseData) (price float64, err error) {
	stage := StageScale
	defer func() {
		if r := recover(); r != nil {
			price = 0
			err = &PredictionError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	v, err := Features(rec, p.scaler)
	if err != nil {
		return 0, err
	}

	stage = StageInference
	out, err := p.model.Predict(v)
	if err != nil {
		return 0, &PredictionError{Stage: StageInference, Err: err}
	}
	if len(out) == 0 {
		return 0, &PredictionError{Stage: StageInference, Err: errors.New("model returned no output")}
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return 0, &PredictionError{Stage: StageInference, Err: fmt.Errorf("model returned %v", out[0])}
	}
	return out[0], nil
}

// Handle is the request boundary. It converts the outcome of Predict into a
// single-key payload and also returns the classified failure, nil on
// success, for the caller's logs and metrics.
func (p *Predictor) Handle(rec types.HouseData) (types.Result, *PredictionError) {
	price, err := p.Predict(rec)
	if err != nil {
		var pe *PredictionError
		if !errors.As(err, &pe) {
			pe = &PredictionError{Stage: StageInference, Err: err}
		}
		return types.Failure(pe.Error()), pe
	}
	return types.Success(price), nil
}
