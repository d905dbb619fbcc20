package predict

// Stage identifies where a prediction failed.
type Stage string

const (
	StageScale     Stage = "scale"
	StageFeatures  Stage = "features"
	StageInference Stage = "inference"
)

// PredictionError is a failure of a single request. It never outlives the
// request and never affects other requests.
type PredictionError struct {
	Stage Stage
	Err   error
}

func (e *PredictionError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *PredictionError) Unwrap() error { return e.Err }
