package nearest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite/vtab"

	"github.com/viant/bluenoise/engine"
	"github.com/viant/bluenoise/index"
	"github.com/viant/bluenoise/sampler"
	"github.com/viant/bluenoise/spatial"
)

// ModuleName is the name the virtual table module is registered under.
const ModuleName = "bn_nearest"

const (
	colID = iota
	colPosition
	colDistance
)

const (
	idxScan = iota
	idxMatch
)

// Module implements vtab.Module for bn_nearest tables.
type Module struct {
	db *sql.DB
}

// Table is a single bn_nearest instance. Its index is filled lazily from the
// source table.
type Table struct {
	db   *sql.DB
	name string
	opts options

	mu        sync.Mutex
	index     index.Index
	rowIDs    []int64
	positions []spatial.Point
	lastID    int64
	loaded    fingerprint
}

type row struct {
	id       int64
	position spatial.Point
	distance any
}

// Cursor iterates the rows produced by Filter.
type Cursor struct {
	table *Table
	rows  []row
	pos   int
}

// Register registers the bn_nearest module and the bn_distance function with db.
func Register(db *sql.DB) error {
	if db == nil {
		return errors.New("bn_nearest: db is nil")
	}
	if err := engine.RegisterDistanceFunctions(); err != nil {
		return err
	}
	if err := vtab.RegisterModule(db, ModuleName, &Module{db: db}); err != nil {
		if !strings.Contains(err.Error(), "already registered") {
			return err
		}
	}
	return nil
}

// Create initializes a table instance.
func (m *Module) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args)
}

// Connect attaches to an existing table instance.
func (m *Module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args)
}

func (m *Module) connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("bn_nearest: expected at least 3 args, got %d", len(args))
	}
	opts, err := parseOptions(args[3:])
	if err != nil {
		return nil, err
	}
	if err := ctx.Declare(fmt.Sprintf("CREATE TABLE %s(id INTEGER, position BLOB, distance REAL HIDDEN)", args[2])); err != nil {
		return nil, err
	}
	return &Table{db: m.db, name: args[2], opts: opts}, nil
}

// BestIndex pushes MATCH on the position column down to the index.
func (t *Table) BestIndex(info *vtab.IndexInfo) error {
	info.IdxNum = idxScan
	for i := range info.Constraints {
		c := &info.Constraints[i]
		if !c.Usable {
			continue
		}
		if c.Column == colPosition && c.Op == vtab.OpMATCH {
			c.ArgIndex = 0
			c.Omit = true
			info.IdxNum = idxMatch
			break
		}
	}
	return nil
}

// Open allocates a new cursor.
func (t *Table) Open() (vtab.Cursor, error) { return &Cursor{table: t}, nil }

// Disconnect releases nothing; the index lives with the table.
func (t *Table) Disconnect() error { return nil }

// Destroy leaves the source table untouched.
func (t *Table) Destroy() error { return nil }

// Filter refreshes the index and computes the result rows.
func (c *Cursor) Filter(idxNum int, _ string, vals []vtab.Value) error {
	c.rows = nil
	c.pos = 0
	t := c.table
	ctx := context.Background()

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.refresh(ctx); err != nil {
		return err
	}

	switch idxNum {
	case idxScan:
		c.rows = make([]row, len(t.rowIDs))
		for i, id := range t.rowIDs {
			c.rows[i] = row{id: id, position: t.positions[i]}
		}
		return nil
	case idxMatch:
		if len(vals) == 0 || vals[0] == nil {
			return errors.New("bn_nearest: MATCH argument is required")
		}
		query, err := decodeMatchArg(vals[0])
		if err != nil {
			return err
		}
		nearest, ok := t.index.FindNearest(query)
		if !ok {
			return nil
		}
		c.rows = []row{{
			id:       t.rowIDs[nearest.ID],
			position: t.positions[nearest.ID],
			distance: float64(nearest.Distance),
		}}
		return nil
	}
	return fmt.Errorf("bn_nearest: unsupported query plan %d", idxNum)
}

func decodeMatchArg(v vtab.Value) (spatial.Point, error) {
	switch val := v.(type) {
	case []byte:
		return spatial.DecodePoint(val)
	case string:
		return spatial.ParsePoint(val)
	}
	return spatial.Point{}, fmt.Errorf("bn_nearest: expected MATCH arg as BLOB or string, got %T", v)
}

// Next advances the cursor.
func (c *Cursor) Next() error {
	if c.pos < len(c.rows) {
		c.pos++
	}
	return nil
}

// Eof reports end-of-rows.
func (c *Cursor) Eof() bool { return c.pos >= len(c.rows) }

// Column returns the value of a column in the current row.
func (c *Cursor) Column(col int) (vtab.Value, error) {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, fmt.Errorf("bn_nearest: Column out of range (pos=%d,len=%d)", c.pos, len(c.rows))
	}
	r := c.rows[c.pos]
	switch col {
	case colID:
		return r.id, nil
	case colPosition:
		return spatial.EncodePoint(r.position), nil
	case colDistance:
		return r.distance, nil
	}
	return nil, fmt.Errorf("bn_nearest: unsupported column %d", col)
}

// Rowid returns the source row id.
func (c *Cursor) Rowid() (int64, error) {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return 0, fmt.Errorf("bn_nearest: Rowid out of range (pos=%d,len=%d)", c.pos, len(c.rows))
	}
	return c.rows[c.pos].id, nil
}

// Close releases resources.
func (c *Cursor) Close() error { c.rows = nil; c.pos = 0; return nil }

// fingerprint summarizes the loaded part of the source table: the rows with
// id <= lastID. Deletes, inserts below lastID and position updates change it.
type fingerprint struct {
	count    int
	idSum    float64
	checksum float64
}

// checksumOrigin is the reference point positions are measured against.
var checksumOrigin = spatial.EncodePoint(spatial.NewPoint(1.5, -2.25, 3.125))

func (t *Table) fingerprint(ctx context.Context) (fingerprint, error) {
	var fp fingerprint
	q := fmt.Sprintf("SELECT COUNT(*), TOTAL(id), TOTAL(%s('%s', position, ?)) FROM %s WHERE id <= ?",
		engine.DistanceFunctionName, spatial.DistanceFunctionSqEuclidean, t.opts.source)
	if err := t.db.QueryRowContext(ctx, q, checksumOrigin, t.lastID).Scan(&fp.count, &fp.idSum, &fp.checksum); err != nil {
		return fp, fmt.Errorf("bn_nearest: fingerprint %s: %w", t.opts.source, err)
	}
	return fp, nil
}

// refresh inserts source rows placed since the last refresh. The index is
// rebuilt from scratch when rows it already holds were deleted or updated,
// or when rows appeared below the last loaded id.
func (t *Table) refresh(ctx context.Context) error {
	if t.index == nil {
		if err := t.reset(); err != nil {
			return err
		}
	}
	if len(t.rowIDs) > 0 {
		current, err := t.fingerprint(ctx)
		if err != nil {
			return err
		}
		if current != t.loaded {
			if err := t.reset(); err != nil {
				return err
			}
		}
	}
	before := len(t.rowIDs)
	if err := t.load(ctx); err != nil {
		return err
	}
	if len(t.rowIDs) == before {
		return nil
	}
	fp, err := t.fingerprint(ctx)
	if err != nil {
		return err
	}
	t.loaded = fp
	return nil
}

func (t *Table) reset() error {
	idx, err := sampler.NewIndex(t.opts.kind, t.opts.capacity, t.opts.metric.Function())
	if err != nil {
		return fmt.Errorf("bn_nearest: %w", err)
	}
	t.index = idx
	t.rowIDs = t.rowIDs[:0]
	t.positions = t.positions[:0]
	t.lastID = 0
	t.loaded = fingerprint{}
	return nil
}

func (t *Table) load(ctx context.Context) error {
	q := fmt.Sprintf("SELECT id, position FROM %s", t.opts.source)
	var args []any
	if len(t.rowIDs) > 0 {
		q += " WHERE id > ?"
		args = append(args, t.lastID)
	}
	rows, err := t.db.QueryContext(ctx, q+" ORDER BY id", args...)
	if err != nil {
		return fmt.Errorf("bn_nearest: load %s: %w", t.opts.source, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int64
			blob []byte
		)
		if err := rows.Scan(&id, &blob); err != nil {
			return err
		}
		p, err := spatial.DecodePoint(blob)
		if err != nil {
			return fmt.Errorf("bn_nearest: row %d: %w", id, err)
		}
		if _, err := t.index.Insert(p); err != nil {
			return fmt.Errorf("bn_nearest: row %d: %w", id, err)
		}
		t.rowIDs = append(t.rowIDs, id)
		t.positions = append(t.positions, p)
		t.lastID = id
	}
	return rows.Err()
}
