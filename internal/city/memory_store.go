package city

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store for development and tests. It assigns
// monotonic IDs and enforces the same constraints as the SQL schema,
// including unique city names.
type MemoryStore struct {
	mu         sync.RWMutex
	cities     map[int64]*City            // without POIs
	pois       map[int64]*PointOfInterest // by POI ID
	nextCityID int64
	nextPOIID  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cities:     make(map[int64]*City),
		pois:       make(map[int64]*PointOfInterest),
		nextCityID: 1,
		nextPOIID:  1,
	}
}

// AddCity inserts a city and returns its assigned ID. City creation is not
// part of the external API; this exists for seeding and tests.
func (m *MemoryStore) AddCity(name, description string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.cities {
		if c.Name == name {
			return 0, errors.New("city: name already exists")
		}
	}

	id := m.nextCityID
	m.nextCityID++
	m.cities[id] = &City{ID: id, Name: name, Description: description}
	return id, nil
}

// Seed populates the store with the default demo data set.
func (m *MemoryStore) Seed() {
	seed := []struct {
		name, desc string
		pois       []PointOfInterest
	}{
		{"Antwerp", "The one with the cathedral that never really finished.", []PointOfInterest{
			{Name: "Cathedral of Our Lady", Description: "A Gothic style cathedral, conceived by architects Jan and Pieter Appelmans."},
			{Name: "Antwerp Central Station", Description: "The finest example of railway architecture in Belgium."},
		}},
		{"Paris", "The one with that big tower.", []PointOfInterest{
			{Name: "Eiffel Tower", Description: "A wrought iron lattice tower on the Champ de Mars."},
			{Name: "The Louvre", Description: "The world's largest museum."},
		}},
		{"New York City", "The one with that big park.", []PointOfInterest{
			{Name: "Central Park", Description: "The most visited urban park in the United States."},
			{Name: "Empire State Building", Description: "A 102-story skyscraper located in Midtown Manhattan."},
		}},
	}

	for _, s := range seed {
		cityID, err := m.AddCity(s.name, s.desc)
		if err != nil {
			continue
		}
		m.mu.Lock()
		for _, p := range s.pois {
			id := m.nextPOIID
			m.nextPOIID++
			m.pois[id] = &PointOfInterest{ID: id, Name: p.Name, Description: p.Description, CityID: cityID}
		}
		m.mu.Unlock()
	}
}

func matchesFilter(c *City, f Filter) bool {
	if f.Name != "" && !strings.EqualFold(c.Name, f.Name) {
		return false
	}
	if f.SearchQuery != "" {
		q := strings.ToLower(f.SearchQuery)
		if !strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			return false
		}
	}
	return true
}

// sortedCities returns matching cities ordered by ID. Callers hold the lock.
func (m *MemoryStore) sortedCities(f Filter) []*City {
	var out []*City
	for _, c := range m.cities {
		if matchesFilter(c, f) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryStore) CountCities(_ context.Context, f Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sortedCities(f)), nil
}

func (m *MemoryStore) ListCities(_ context.Context, f Filter, offset, limit int) ([]City, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.sortedCities(f)
	if offset >= len(matched) {
		return []City{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]City, 0, end-offset)
	for _, c := range matched[offset:end] {
		out = append(out, *c)
	}
	return out, nil
}

func (m *MemoryStore) GetCity(_ context.Context, id int64, includePointsOfInterest bool) (*City, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.cities[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	if includePointsOfInterest {
		cp.PointsOfInterest = m.poisForCity(id)
	}
	return &cp, nil
}

func (m *MemoryStore) CityExists(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cities[id]
	return ok, nil
}

func (m *MemoryStore) CityName(_ context.Context, id int64) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cities[id]
	if !ok {
		return "", false, nil
	}
	return c.Name, true, nil
}

// poisForCity returns a city's POIs ordered by ID. Callers hold the lock.
func (m *MemoryStore) poisForCity(cityID int64) []PointOfInterest {
	out := []PointOfInterest{}
	for _, p := range m.pois {
		if p.CityID == cityID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryStore) ListPointsOfInterest(_ context.Context, cityID int64) ([]PointOfInterest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.poisForCity(cityID), nil
}

func (m *MemoryStore) GetPointOfInterest(_ context.Context, cityID, poiID int64) (*PointOfInterest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pois[poiID]
	if !ok || p.CityID != cityID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// Apply commits the changeset under one lock, all-or-nothing: every staged
// mutation is validated before any of them lands.
func (m *MemoryStore) Apply(_ context.Context, cs *Changeset) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range cs.Inserts {
		if _, ok := m.cities[p.CityID]; !ok {
			return 0, ErrCityNotFound
		}
	}
	for _, p := range cs.Updates {
		if cur, ok := m.pois[p.ID]; !ok || cur.CityID != p.CityID {
			return 0, errors.New("city: staged update for unknown point of interest")
		}
	}
	for _, p := range cs.Deletes {
		if cur, ok := m.pois[p.ID]; !ok || cur.CityID != p.CityID {
			return 0, errors.New("city: staged delete for unknown point of interest")
		}
	}

	n := 0
	for _, p := range cs.Inserts {
		p.ID = m.nextPOIID
		m.nextPOIID++
		cp := *p
		m.pois[p.ID] = &cp
		n++
	}
	for _, p := range cs.Updates {
		cp := p
		m.pois[p.ID] = &cp
		n++
	}
	for _, p := range cs.Deletes {
		delete(m.pois, p.ID)
		n++
	}
	return n, nil
}

// PointOfInterestCount reports the total number of stored points of
// interest, used by tests asserting that failed commits left the store
// untouched.
func (m *MemoryStore) PointOfInterestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pois)
}

var _ Store = (*MemoryStore)(nil)
