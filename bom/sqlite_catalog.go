package bom

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteCatalog stores material prices in a SQLite database.
type SQLiteCatalog struct {
	db *sql.DB
}

// OpenSQLiteCatalog opens (creating if needed) the catalog database at path.
func OpenSQLiteCatalog(ctx context.Context, path string) (*SQLiteCatalog, error) {
	if path == "" {
		return nil, ErrEmptyCatalogPath
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	const schema = `CREATE TABLE IF NOT EXISTS materials (
		code TEXT PRIMARY KEY,
		unit_cost REAL NOT NULL,
		weight_per_unit_length REAL NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog db: %w", err)
	}
	return &SQLiteCatalog{db: db}, nil
}

// Close releases the database handle.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// Upsert inserts or replaces the price for a material code.
func (c *SQLiteCatalog) Upsert(ctx context.Context, material string, p Price) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO materials (code, unit_cost, weight_per_unit_length) VALUES (?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET unit_cost = excluded.unit_cost, weight_per_unit_length = excluded.weight_per_unit_length`,
		normalizeCode(material), p.UnitCost, p.WeightPerUnitLength)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", material, err)
	}
	return nil
}

// Import copies every entry of m into the database in one transaction.
func (c *SQLiteCatalog) Import(ctx context.Context, m MapCatalog) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import catalog: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO materials (code, unit_cost, weight_per_unit_length) VALUES (?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET unit_cost = excluded.unit_cost, weight_per_unit_length = excluded.weight_per_unit_length`)
	if err != nil {
		return fmt.Errorf("import catalog: %w", err)
	}
	defer stmt.Close()

	for code, p := range m {
		if _, err := stmt.ExecContext(ctx, normalizeCode(code), p.UnitCost, p.WeightPerUnitLength); err != nil {
			return fmt.Errorf("import %s: %w", code, err)
		}
	}
	return tx.Commit()
}

// Load reads the whole table into an in-memory catalog.
func (c *SQLiteCatalog) Load(ctx context.Context) (MapCatalog, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT code, unit_cost, weight_per_unit_length FROM materials`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	out := MapCatalog{}
	for rows.Next() {
		var code string
		var p Price
		if err := rows.Scan(&code, &p.UnitCost, &p.WeightPerUnitLength); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		out[code] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return out, nil
}

// Lookup implements Catalog by querying the database directly. Query errors
// are reported as a missing entry.
func (c *SQLiteCatalog) Lookup(material string) (Price, bool) {
	var p Price
	err := c.db.QueryRowContext(context.Background(),
		`SELECT unit_cost, weight_per_unit_length FROM materials WHERE code = ?`,
		normalizeCode(material)).Scan(&p.UnitCost, &p.WeightPerUnitLength)
	if err != nil {
		return Price{}, false
	}
	return p, true
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
