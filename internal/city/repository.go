package city

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbd888/cityinfo/internal/pagination"
)

// Repository is the access layer over a Store for the lifetime of one
// request. Reads go straight to the store; mutations are staged in memory
// and become durable only on Commit. Repositories are not safe for
// concurrent use and are never shared across requests.
type Repository struct {
	store   Store
	pending Changeset
}

// NewRepository creates a repository over the given store.
func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// ListCities returns the filtered, paginated city listing (without points
// of interest) plus the pagination metadata for the full match count.
// pageSize must already be clamped to MaxPageSize by the caller.
func (r *Repository) ListCities(ctx context.Context, f Filter, page, pageSize int) ([]City, pagination.Metadata, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.SearchQuery = strings.TrimSpace(f.SearchQuery)

	total, err := r.store.CountCities(ctx, f)
	if err != nil {
		return nil, pagination.Metadata{}, err
	}
	meta := pagination.Compute(total, page, pageSize)

	offset, limit := pagination.Window(page, pageSize)
	cities, err := r.store.ListCities(ctx, f, offset, limit)
	if err != nil {
		return nil, pagination.Metadata{}, err
	}
	return cities, meta, nil
}

// GetCity returns the city, or nil if absent. Absence is not an error.
func (r *Repository) GetCity(ctx context.Context, cityID int64, includePointsOfInterest bool) (*City, error) {
	return r.store.GetCity(ctx, cityID, includePointsOfInterest)
}

// CityExists reports whether a city exists, decoupled from a full fetch.
func (r *Repository) CityExists(ctx context.Context, cityID int64) (bool, error) {
	return r.store.CityExists(ctx, cityID)
}

// ListPointsOfInterest returns a city's points of interest, empty slice when
// it has none. The caller is responsible for having confirmed the city
// exists.
func (r *Repository) ListPointsOfInterest(ctx context.Context, cityID int64) ([]PointOfInterest, error) {
	return r.store.ListPointsOfInterest(ctx, cityID)
}

// GetPointOfInterest returns the point of interest only if it belongs to the
// given city; nil otherwise, including when it exists under a different
// city.
func (r *Repository) GetPointOfInterest(ctx context.Context, cityID, poiID int64) (*PointOfInterest, error) {
	return r.store.GetPointOfInterest(ctx, cityID, poiID)
}

// AddPointOfInterest stages an insert attached to the given city. Returns
// ErrCityNotFound if the city does not exist. The insert is not durable, and
// the POI has no ID, until Commit. Not idempotent: repeated add+commit
// creates duplicates.
func (r *Repository) AddPointOfInterest(ctx context.Context, cityID int64, poi *PointOfInterest) error {
	exists, err := r.store.CityExists(ctx, cityID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCityNotFound
	}
	poi.CityID = cityID
	r.pending.Inserts = append(r.pending.Inserts, poi)
	return nil
}

// UpdatePointOfInterest stages the entity's current field values for
// persistence. In-memory only, no I/O.
func (r *Repository) UpdatePointOfInterest(poi PointOfInterest) {
	r.pending.Updates = append(r.pending.Updates, poi)
}

// DeletePointOfInterest marks the point of interest for removal. In-memory
// only, no I/O.
func (r *Repository) DeletePointOfInterest(poi PointOfInterest) {
	r.pending.Deletes = append(r.pending.Deletes, poi)
}

// CityNameMatchesCityID reports whether the given name (typically a tenant
// claim) equals the name of the city with the given ID. False when the name
// is nil, the city is absent, or the names differ; a missing city is never
// an error here.
func (r *Repository) CityNameMatchesCityID(ctx context.Context, cityName *string, cityID int64) (bool, error) {
	if cityName == nil {
		return false, nil
	}
	name, ok, err := r.store.CityName(ctx, cityID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return name == *cityName, nil
}

// Commit flushes all staged mutations to the store as a single transaction.
// Returns whether anything was persisted: false without error only for an
// empty stage. A non-empty stage that writes no rows (the target row was
// removed by a concurrent request between fetch and commit) is an error, so
// callers never report success for a write that did not land. The staged set
// is cleared on success; on failure nothing was written and the stage is
// kept for inspection.
func (r *Repository) Commit(ctx context.Context) (bool, error) {
	if r.pending.Empty() {
		return false, nil
	}
	n, err := r.store.Apply(ctx, &r.pending)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, fmt.Errorf("city: commit persisted none of %d staged changes", r.pending.Len())
	}
	r.pending = Changeset{}
	return true, nil
}
