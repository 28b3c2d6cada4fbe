package city

import "context"

// Filter narrows a city listing. Name matches trimmed, case-insensitive and
// exact; SearchQuery matches as a case-insensitive substring of either name
// or description. Both compose with AND when supplied together.
type Filter struct {
	Name        string
	SearchQuery string
}

// Store is the durable table-backed storage for cities and points of
// interest. Reads hit the store directly on every call; writes only land
// through Apply, which commits a whole changeset in one transaction.
//
// Read methods report "not found" as a nil entity (or false), never as an
// error. Errors are reserved for storage failures.
type Store interface {
	// CountCities returns how many cities match the filter.
	CountCities(ctx context.Context, f Filter) (int, error)

	// ListCities returns the matching window of cities, without their
	// points of interest, ordered by ID so repeated calls against the same
	// state return the same slice.
	ListCities(ctx context.Context, f Filter, offset, limit int) ([]City, error)

	// GetCity returns the city or nil if absent.
	GetCity(ctx context.Context, id int64, includePointsOfInterest bool) (*City, error)

	// CityExists is a cheap existence check used for guard clauses.
	CityExists(ctx context.Context, id int64) (bool, error)

	// CityName returns the city's name, or ok=false if the city is absent.
	CityName(ctx context.Context, id int64) (name string, ok bool, err error)

	// ListPointsOfInterest returns a city's points of interest, empty when
	// it has none. Callers confirm the city exists beforehand.
	ListPointsOfInterest(ctx context.Context, cityID int64) ([]PointOfInterest, error)

	// GetPointOfInterest returns the point of interest only if it belongs
	// to the given city; nil otherwise.
	GetPointOfInterest(ctx context.Context, cityID, poiID int64) (*PointOfInterest, error)

	// Apply commits a changeset atomically and returns how many rows were
	// written. Inserts get their store-assigned IDs written back through
	// the changeset's pointers.
	Apply(ctx context.Context, cs *Changeset) (int, error)
}

// Changeset holds mutations staged by a Repository between reads and an
// explicit Commit. Nothing in it is durable until Store.Apply succeeds.
type Changeset struct {
	Inserts []*PointOfInterest
	Updates []PointOfInterest
	Deletes []PointOfInterest
}

// Empty reports whether the changeset stages no work.
func (cs *Changeset) Empty() bool {
	return len(cs.Inserts) == 0 && len(cs.Updates) == 0 && len(cs.Deletes) == 0
}

// Len returns the number of staged mutations.
func (cs *Changeset) Len() int {
	return len(cs.Inserts) + len(cs.Updates) + len(cs.Deletes)
}
