package predict

import (
	"fmt"
	"math"

	"github.com/housepredict/housepredict/pkg/types"
	"github.com/housepredict/housepredict/server/internal/artifact"
)

// NumFeatures is the length of the model input vector.
const NumFeatures = 16

// Positions of the derived features in the vector.
const (
	idxArea = iota
	idxBedrooms
	idxBathrooms
	idxStories
	idxParking
	idxFurnishingStatus
	idxMainRoad
	idxGuestRoom
	idxBasement
	idxHotWaterHeating
	idxAirConditioning
	idxPreferredArea
	idxAreaBedrooms
	idxStoriesBathrooms
	idxLuxuryIndex
	idxAmenitiesCount
)

var featureOrder = [NumFeatures]string{
	"area", "bedrooms", "bathrooms", "stories", "parking",
	"furnishingstatus", "mainroad_yes", "guestroom_yes",
	"basement_yes", "hotwaterheating_yes", "airconditioning_yes",
	"prefarea_yes", "area_bedrooms", "stories_bathrooms",
	"luxury_index", "amenities_count",
}

// FeatureNames returns the feature names in vector order.
func FeatureNames() []string {
	out := make([]string, NumFeatures)
	copy(out, featureOrder[:])
	return out
}

// Features builds the model input vector for rec. Only area passes through
// the scaler; every other raw field is copied as-is.
func Features(rec types.HouseData, scaler artifact.Scaler) ([]float64, error) {
	area, err := scaler.Transform(rec.Area)
	if err != nil {
		return nil, &PredictionError{Stage: StageScale, Err: fmt.Errorf("area %v: %w", rec.Area, err)}
	}

	v := make([]float64, NumFeatures)
	v[idxArea] = area
	v[idxBedrooms] = float64(rec.Bedrooms)
	v[idxBathrooms] = float64(rec.Bathrooms)
	v[idxStories] = float64(rec.Stories)
	v[idxParking] = float64(rec.Parking)
	v[idxFurnishingStatus] = float64(rec.FurnishingStatus)
	v[idxMainRoad] = float64(rec.MainRoad)
	v[idxGuestRoom] = float64(rec.GuestRoom)
	v[idxBasement] = float64(rec.Basement)
	v[idxHotWaterHeating] = float64(rec.HotWaterHeating)
	v[idxAirConditioning] = float64(rec.AirConditioning)
	v[idxPreferredArea] = float64(rec.PreferredArea)

	v[idxAreaBedrooms] = area * v[idxBedrooms]
	v[idxStoriesBathrooms] = v[idxStories] * v[idxBathrooms]
	v[idxAmenitiesCount] = v[idxMainRoad] + v[idxGuestRoom] + v[idxBasement] +
		v[idxHotWaterHeating] + v[idxAirConditioning] + v[idxPreferredArea]
	// mainroad_yes and prefarea_yes are left out; the model was trained on
	// this definition.
	v[idxLuxuryIndex] = v[idxAirConditioning] + v[idxHotWaterHeating] +
		v[idxGuestRoom] + v[idxBasement]

	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, &PredictionError{Stage: StageFeatures, Err: fmt.Errorf("%s is %v", featureOrder[i], x)}
		}
	}
	return v, nil
}
