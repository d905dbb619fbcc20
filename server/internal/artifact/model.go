package artifact

import "fmt"

// Model kinds accepted in model.json.
const ModelLinear = "linear"

type modelFile struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LinearModel is a fitted ordinary least squares regressor:
// Intercept + sum(Coefficients[i] * x[i]).
type LinearModel struct {
	Coefficients []float64
	Intercept    float64
}

func (m *LinearModel) Predict(features []float64) ([]float64, error) {
	if len(features) != len(m.Coefficients) {
		return nil, fmt.Errorf("linear model: got %d features, want %d", len(features), len(m.Coefficients))
	}
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * features[i]
	}
	y, err := finite(y)
	if err != nil {
		return nil, fmt.Errorf("linear model: %w", err)
	}
	return []float64{y}, nil
}

// LoadModel reads and validates a model artifact against the expected
// feature layout, returning it with its kind.
func LoadModel(path string, features []string) (Model, string, error) {
	var f modelFile
	if err := decodeStrict(path, &f); err != nil {
		return nil, "", err
	}

	switch f.Kind {
	case ModelLinear:
	case "":
		return nil, "", fmt.Errorf("kind is required")
	default:
		return nil, "", fmt.Errorf("unknown model kind %q: want linear", f.Kind)
	}

	if len(f.Coefficients) != len(features) {
		return nil, "", fmt.Errorf("coefficients: got %d, want %d", len(f.Coefficients), len(features))
	}
	// feature_names is optional, but when present it pins the layout the
	// model was fit with.
	if f.FeatureNames != nil {
		if len(f.FeatureNames) != len(features) {
			return nil, "", fmt.Errorf("feature_names: got %d, want %d", len(f.FeatureNames), len(features))
		}
		for i, name := range f.FeatureNames {
			if name != features[i] {
				return nil, "", fmt.Errorf("feature_names[%d]: got %q, want %q", i, name, features[i])
			}
		}
	}

	coef := make([]float64, len(f.Coefficients))
	copy(coef, f.Coefficients)
	return &LinearModel{Coefficients: coef, Intercept: f.Intercept}, f.Kind, nil
}
