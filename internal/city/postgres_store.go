package city

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PostgresStore persists cities and points of interest in PostgreSQL.
// The schema is managed by the migrations/ directory (see cmd/migrate).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// filterClause builds the WHERE clause for a city filter. Arguments are
// numbered from 1; callers append their own placeholders after the returned
// args.
func filterClause(f Filter) (string, []any) {
	var conds []string
	var args []any
	if f.Name != "" {
		args = append(args, f.Name)
		conds = append(conds, fmt.Sprintf("LOWER(name) = LOWER($%d)", len(args)))
	}
	if f.SearchQuery != "" {
		args = append(args, "%"+escapeLike(f.SearchQuery)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR COALESCE(description, '') ILIKE $%d)", n, n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters so a search query matches
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (p *PostgresStore) CountCities(ctx context.Context, f Filter) (int, error) {
	where, args := filterClause(f)
	var count int
	err := p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cities"+where, args...).Scan(&count)
	return count, err
}

func (p *PostgresStore) ListCities(ctx context.Context, f Filter, offset, limit int) ([]City, error) {
	where, args := filterClause(f)
	args = append(args, limit, offset)
	query := fmt.Sprintf(
		"SELECT id, name, COALESCE(description, '') FROM cities%s ORDER BY id LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args),
	)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cities := []City{}
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (p *PostgresStore) GetCity(ctx context.Context, id int64, includePointsOfInterest bool) (*City, error) {
	var c City
	err := p.db.QueryRowContext(ctx,
		"SELECT id, name, COALESCE(description, '') FROM cities WHERE id = $1", id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if includePointsOfInterest {
		pois, err := p.ListPointsOfInterest(ctx, id)
		if err != nil {
			return nil, err
		}
		c.PointsOfInterest = pois
	}
	return &c, nil
}

func (p *PostgresStore) CityExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM cities WHERE id = $1)", id,
	).Scan(&exists)
	return exists, err
}

func (p *PostgresStore) CityName(ctx context.Context, id int64) (string, bool, error) {
	var name string
	err := p.db.QueryRowContext(ctx, "SELECT name FROM cities WHERE id = $1", id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (p *PostgresStore) ListPointsOfInterest(ctx context.Context, cityID int64) ([]PointOfInterest, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), city_id
		FROM points_of_interest WHERE city_id = $1 ORDER BY id`, cityID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	pois := []PointOfInterest{}
	for rows.Next() {
		var poi PointOfInterest
		if err := rows.Scan(&poi.ID, &poi.Name, &poi.Description, &poi.CityID); err != nil {
			return nil, err
		}
		pois = append(pois, poi)
	}
	return pois, rows.Err()
}

func (p *PostgresStore) GetPointOfInterest(ctx context.Context, cityID, poiID int64) (*PointOfInterest, error) {
	var poi PointOfInterest
	err := p.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description, ''), city_id
		FROM points_of_interest WHERE id = $1 AND city_id = $2`, poiID, cityID,
	).Scan(&poi.ID, &poi.Name, &poi.Description, &poi.CityID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &poi, nil
}

// Apply commits the changeset in a single transaction. Store-assigned IDs
// for inserts are written back through the changeset pointers.
func (p *PostgresStore) Apply(ctx context.Context, cs *Changeset) (int, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	n := 0
	for _, poi := range cs.Inserts {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO points_of_interest (name, description, city_id)
			VALUES ($1, NULLIF($2, ''), $3) RETURNING id`,
			poi.Name, poi.Description, poi.CityID,
		).Scan(&poi.ID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return 0, ErrCityNotFound
			}
			return 0, fmt.Errorf("insert point of interest: %w", err)
		}
		n++
	}
	for _, poi := range cs.Updates {
		res, err := tx.ExecContext(ctx, `
			UPDATE points_of_interest SET name = $1, description = NULLIF($2, '')
			WHERE id = $3 AND city_id = $4`,
			poi.Name, poi.Description, poi.ID, poi.CityID,
		)
		if err != nil {
			return 0, fmt.Errorf("update point of interest %d: %w", poi.ID, err)
		}
		rows, _ := res.RowsAffected()
		n += int(rows)
	}
	for _, poi := range cs.Deletes {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM points_of_interest WHERE id = $1 AND city_id = $2`,
			poi.ID, poi.CityID,
		)
		if err != nil {
			return 0, fmt.Errorf("delete point of interest %d: %w", poi.ID, err)
		}
		rows, _ := res.RowsAffected()
		n += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

var _ Store = (*PostgresStore)(nil)
