// Package predict turns one house record into one predicted price.
//
// Features scales area through the loaded scaler, derives four engineered
// features and returns the 16-value vector in the positional layout the
// model was fit against:
//
//	area, bedrooms, bathrooms, stories, parking, furnishingstatus,
//	mainroad_yes, guestroom_yes, basement_yes, hotwaterheating_yes,
//	airconditioning_yes, prefarea_yes,
//	area_bedrooms, stories_bathrooms, luxury_index, amenities_count
//
// luxury_index counts four amenities and leaves out mainroad_yes and
// prefarea_yes, while amenities_count counts all six. The model depends on
// exactly that definition.
//
// Predictor holds the loaded artifacts and is safe for concurrent use: it
// never mutates them. Predictor.Handle is the request boundary; every
// failure, panics included, comes back as an error payload.
package predict
