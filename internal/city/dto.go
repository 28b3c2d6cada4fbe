package city

// Response shapes and their mapping functions. Mappings are hand-written,
// one per entity/shape pair, so field correspondence is checked at compile
// time instead of discovered by reflection at runtime.

// CityResponse is a city without its points of interest, returned by the
// listing endpoint and by GetCity when includePoi is false.
type CityResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CityDetailResponse is a city with its points of interest.
type CityDetailResponse struct {
	ID               int64                     `json:"id"`
	Name             string                    `json:"name"`
	Description      string                    `json:"description,omitempty"`
	PointsOfInterest []PointOfInterestResponse `json:"pointsOfInterest"`
}

// PointOfInterestResponse is the wire shape of a point of interest. The
// owning city is implied by the route, so CityID is not exposed.
type PointOfInterestResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NewCityResponse maps a city to its listing shape.
func NewCityResponse(c City) CityResponse {
	return CityResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// NewCityListResponse maps a city slice, preserving order. Always non-nil
// so an empty page serializes as [].
func NewCityListResponse(cities []City) []CityResponse {
	out := make([]CityResponse, 0, len(cities))
	for _, c := range cities {
		out = append(out, NewCityResponse(c))
	}
	return out
}

// NewCityDetailResponse maps a city together with its points of interest.
func NewCityDetailResponse(c City) CityDetailResponse {
	return CityDetailResponse{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		PointsOfInterest: NewPointOfInterestListResponse(c.PointsOfInterest),
	}
}

// NewPointOfInterestResponse maps a point of interest to its wire shape.
func NewPointOfInterestResponse(p PointOfInterest) PointOfInterestResponse {
	return PointOfInterestResponse{ID: p.ID, Name: p.Name, Description: p.Description}
}

// NewPointOfInterestListResponse maps a slice, preserving order. Always
// non-nil so an empty collection serializes as [].
func NewPointOfInterestListResponse(pois []PointOfInterest) []PointOfInterestResponse {
	out := make([]PointOfInterestResponse, 0, len(pois))
	for _, p := range pois {
		out = append(out, NewPointOfInterestResponse(p))
	}
	return out
}
