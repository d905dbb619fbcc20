package api

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/housepredict/housepredict/pkg/types"
)

// maxSafeInt is the largest integer a float64 holds exactly.
const maxSafeInt = 1 << 53

// houseField describes one required field of the request body.
type houseField struct {
	name    string
	integer bool
	set     func(h *types.HouseData, v float64)
}

var houseFields = []houseField{
	{"area", false, func(h *types.HouseData, v float64) { h.Area = v }},
	{"bedrooms", true, func(h *types.HouseData, v float64) { h.Bedrooms = int(v) }},
	{"bathrooms", true, func(h *types.HouseData, v float64) { h.Bathrooms = int(v) }},
	{"stories", true, func(h *types.HouseData, v float64) { h.Stories = int(v) }},
	{"parking", true, func(h *types.HouseData, v float64) { h.Parking = int(v) }},
	{"furnishingstatus", true, func(h *types.HouseData, v float64) { h.FurnishingStatus = int(v) }},
	{"mainroad_yes", true, func(h *types.HouseData, v float64) { h.MainRoad = int(v) }},
	{"guestroom_yes", true, func(h *types.HouseData, v float64) { h.GuestRoom = int(v) }},
	{"basement_yes", true, func(h *types.HouseData, v float64) { h.Basement = int(v) }},
	{"hotwaterheating_yes", true, func(h *types.HouseData, v float64) { h.HotWaterHeating = int(v) }},
	{"airconditioning_yes", true, func(h *types.HouseData, v float64) { h.AirConditioning = int(v) }},
	{"prefarea_yes", true, func(h *types.HouseData, v float64) { h.PreferredArea = int(v) }},
}

// ValidationError lists every field problem found in one request body, in
// field order.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid house record: " + strings.Join(e.Problems, "; ")
}

// decodeHouse checks and converts a decoded JSON object into a HouseData.
// Integral floats such as 2.0 are accepted for integer fields; strings,
// booleans and nulls are not.
func decodeHouse(raw map[string]json.RawMessage) (types.HouseData, error) {
	var (
		rec      types.HouseData
		problems []string
	)
	for _, f := range houseFields {
		msg, ok := raw[f.name]
		if !ok || string(msg) == "null" {
			problems = append(problems, f.name+": field required")
			continue
		}
		var v float64
		if err := json.Unmarshal(msg, &v); err != nil {
			problems = append(problems, fmt.Sprintf("%s: expected a number, got %s", f.name, msg))
			continue
		}
		if f.integer && (v != math.Trunc(v) || math.Abs(v) > maxSafeInt) {
			problems = append(problems, fmt.Sprintf("%s: expected an integer, got %s", f.name, msg))
			continue
		}
		f.set(&rec, v)
	}
	if len(problems) > 0 {
		return types.HouseData{}, &ValidationError{Problems: problems}
	}
	return rec, nil
}
