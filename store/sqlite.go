package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viant/bluenoise/index"
	"github.com/viant/bluenoise/spatial"
)

// SQLiteStore is a Store backed by a SQLite database. Positions are kept both
// as REAL columns for ad-hoc SQL and as an encoded BLOB for bn_distance.
// The database should be opened with engine.Open so bn_distance is available.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed Store and ensures its schema exists.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("store: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Place inserts the object for id.
func (s *SQLiteStore) Place(ctx context.Context, id int, position spatial.Point) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO bluenoise_points(id, x, y, z, position) VALUES(?, ?, ?, ?, ?)`,
		id, position.X(), position.Y(), position.Z(), spatial.EncodePoint(position))
	if err != nil {
		return fmt.Errorf("store: place %d: %w", id, err)
	}
	return nil
}

// PlaceAll inserts objects in a single transaction.
func (s *SQLiteStore) PlaceAll(ctx context.Context, objects []Object) error {
	if len(objects) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error { return placeTx(ctx, tx, objects) })
}

// ReplaceAll replaces every placed object with objects in a single
// transaction; on failure the previous objects are kept.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, objects []Object) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bluenoise_points`); err != nil {
			return err
		}
		return placeTx(ctx, tx, objects)
	})
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func placeTx(ctx context.Context, tx *sql.Tx, objects []Object) error {
	if len(objects) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bluenoise_points(id, x, y, z, position) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range objects {
		p := o.Position
		if _, err := stmt.ExecContext(ctx, o.ID, p.X(), p.Y(), p.Z(), spatial.EncodePoint(p)); err != nil {
			return fmt.Errorf("store: place %d: %w", o.ID, err)
		}
	}
	return nil
}

// Resolve loads the object placed for id.
func (s *SQLiteStore) Resolve(ctx context.Context, id int) (Object, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT position FROM bluenoise_points WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Object{}, fmt.Errorf("store: resolve %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Object{}, err
	}
	p, err := spatial.DecodePoint(blob)
	if err != nil {
		return Object{}, err
	}
	return Object{ID: id, Position: p}, nil
}

// Len counts the placed objects.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bluenoise_points`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Objects loads every placed object in id order.
func (s *SQLiteStore) Objects(ctx context.Context) ([]Object, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, position FROM bluenoise_points ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Object
	for rows.Next() {
		var o Object
		var blob []byte
		if err := rows.Scan(&o.ID, &blob); err != nil {
			return nil, err
		}
		if o.Position, err = spatial.DecodePoint(blob); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear removes every placed object.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM bluenoise_points`)
	return err
}

// Nearest scans the table in SQL with bn_distance and returns the closest
// object to query. Ties keep the lowest id. It returns index.NotFound and
// false when the table is empty.
func (s *SQLiteStore) Nearest(ctx context.Context, metric spatial.DistanceFunction, query spatial.Point) (index.Neighbor, bool, error) {
	var (
		id int
		d  float64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, bn_distance(?, position, ?) AS d
FROM bluenoise_points
ORDER BY d, id
LIMIT 1`, string(metric), spatial.EncodePoint(query)).Scan(&id, &d)
	if errors.Is(err, sql.ErrNoRows) {
		return index.NotFound, false, nil
	}
	if err != nil {
		return index.NotFound, false, err
	}
	return index.Neighbor{ID: id, Distance: float32(d)}, true, nil
}

var _ Store = (*SQLiteStore)(nil)
