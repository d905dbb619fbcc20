package types

// HouseData is one house description as accepted by POST /predict.
// Amenity fields are 0/1 flags; neither they nor the counts are range-checked.
type HouseData struct {
	Area             float64 `json:"area"`
	Bedrooms         int     `json:"bedrooms"`
	Bathrooms        int     `json:"bathrooms"`
	Stories          int     `json:"stories"`
	Parking          int     `json:"parking"`
	FurnishingStatus int     `json:"furnishingstatus"`
	MainRoad         int     `json:"mainroad_yes"`
	GuestRoom        int     `json:"guestroom_yes"`
	Basement         int     `json:"basement_yes"`
	HotWaterHeating  int     `json:"hotwaterheating_yes"`
	AirConditioning  int     `json:"airconditioning_yes"`
	PreferredArea    int     `json:"prefarea_yes"`
}

// Result is the response payload of POST /predict. Exactly one of the two
// fields is set, so the encoded object always has a single key.
type Result struct {
	Prediction *float64 `json:"prediction,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Success wraps a prediction.
func Success(v float64) Result {
	return Result{Prediction: &v}
}

// Failure wraps an error message.
func Failure(msg string) Result {
	return Result{Error: msg}
}

// OK reports whether r carries a prediction.
func (r Result) OK() bool {
	return r.Prediction != nil
}
