package artifact

import (
	"fmt"
	"math"
)

// Scaler kinds accepted in scaler.json.
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
	ScalerIdentity = "identity"
)

type scalerFile struct {
	Kind         string    `json:"kind"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	DataMin      []float64 `json:"data_min"`
	DataMax      []float64 `json:"data_max"`
	FeatureRange []float64 `json:"feature_range"`
}

// StandardScaler centres on Mean and divides by Scale.
type StandardScaler struct {
	Mean  float64
	Scale float64
}

func (s StandardScaler) Transform(x float64) (float64, error) {
	return finite((x - s.Mean) / s.Scale)
}

// MinMaxScaler maps [DataMin, DataMax] linearly onto [Min, Max].
type MinMaxScaler struct {
	DataMin float64
	DataMax float64
	Min     float64
	Max     float64
}

func (s MinMaxScaler) Transform(x float64) (float64, error) {
	ratio := (x - s.DataMin) / (s.DataMax - s.DataMin)
	return finite(s.Min + ratio*(s.Max-s.Min))
}

// IdentityScaler returns its input unchanged.
type IdentityScaler struct{}

func (IdentityScaler) Transform(x float64) (float64, error) {
	return finite(x)
}

// LoadScaler reads and validates a scaler artifact, returning it with its kind.
func LoadScaler(path string) (Scaler, string, error) {
	var f scalerFile
	if err := decodeStrict(path, &f); err != nil {
		return nil, "", err
	}

	switch f.Kind {
	case ScalerStandard:
		if err := oneColumn("mean", f.Mean); err != nil {
			return nil, "", err
		}
		if err := oneColumn("scale", f.Scale); err != nil {
			return nil, "", err
		}
		if f.Scale[0] == 0 {
			return nil, "", fmt.Errorf("scale must be non-zero")
		}
		return StandardScaler{Mean: f.Mean[0], Scale: f.Scale[0]}, f.Kind, nil

	case ScalerMinMax:
		if err := oneColumn("data_min", f.DataMin); err != nil {
			return nil, "", err
		}
		if err := oneColumn("data_max", f.DataMax); err != nil {
			return nil, "", err
		}
		if f.DataMax[0] == f.DataMin[0] {
			return nil, "", fmt.Errorf("data_max must differ from data_min")
		}
		lo, hi := 0.0, 1.0
		if f.FeatureRange != nil {
			if len(f.FeatureRange) != 2 {
				return nil, "", fmt.Errorf("feature_range: got %d values, want 2", len(f.FeatureRange))
			}
			lo, hi = f.FeatureRange[0], f.FeatureRange[1]
			if lo >= hi {
				return nil, "", fmt.Errorf("feature_range [%g, %g] is empty", lo, hi)
			}
		}
		return MinMaxScaler{DataMin: f.DataMin[0], DataMax: f.DataMax[0], Min: lo, Max: hi}, f.Kind, nil

	case ScalerIdentity:
		return IdentityScaler{}, f.Kind, nil

	case "":
		return nil, "", fmt.Errorf("kind is required")
	default:
		return nil, "", fmt.Errorf("unknown scaler kind %q: want standard|minmax|identity", f.Kind)
	}
}

// oneColumn checks that a fitted parameter describes exactly one column.
// The scaler is fit on area alone.
func oneColumn(name string, v []float64) error {
	if len(v) != 1 {
		return fmt.Errorf("%s: got %d columns, want 1", name, len(v))
	}
	return nil
}

func finite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite result %v", v)
	}
	return v, nil
}
