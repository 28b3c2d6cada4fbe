// Package city implements the city / point-of-interest resource hierarchy:
// entities, the storage contract, the per-request repository with staged
// mutations, and the HTTP handlers.
package city

import "errors"

// Errors
var (
	// ErrCityNotFound is returned by AddPointOfInterest when the target city
	// does not exist. Callers are expected to check existence first; hitting
	// this is a caller contract violation, not a normal control-flow result.
	ErrCityNotFound = errors.New("city: not found")
)

// Field length limits, enforced on create, update, and patch.
const (
	MaxNameLength        = 50
	MaxDescriptionLength = 200
)

// MaxPageSize caps the pageSize query parameter on city listing.
// Larger values are silently clamped down.
const MaxPageSize = 20

// City is a top-level tenant-scoped resource owning zero or more points of
// interest. IDs are store-assigned and monotonic. Wire shapes live in
// dto.go; entities never serialize directly.
type City struct {
	ID               int64
	Name             string
	Description      string
	PointsOfInterest []PointOfInterest
}

// PointOfInterest is owned by exactly one city. It cannot exist without an
// owning city; creation goes through Repository.AddPointOfInterest, which
// forces CityID.
type PointOfInterest struct {
	ID          int64
	Name        string
	Description string
	CityID      int64
}
