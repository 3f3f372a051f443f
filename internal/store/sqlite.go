package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"brain-service/internal/brain/model"
)

// SQLite: индекс и журнал в одном файле базы.
type SQLite struct {
	db *sql.DB
}

// NewSQLite открывает базу (создаёт при необходимости) и накатывает схему.
func NewSQLite(path string) (*SQLite, error) {
	if err := ensureDir(path); err != nil {
		return nil, eris.Wrapf(err, "sqlite: mkdir for %s", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// один писатель; так modernc не ловит SQLITE_BUSY внутри процесса
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	s := &SQLite{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS canonicals (
	id          INTEGER PRIMARY KEY,
	brand       TEXT NOT NULL,
	producer    TEXT NOT NULL,
	volume      REAL NOT NULL,
	category    TEXT NOT NULL,
	subcategory TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS aliases (
	pos          INTEGER PRIMARY KEY,
	xname        TEXT NOT NULL UNIQUE,
	canonical_id INTEGER NOT NULL REFERENCES canonicals(id),
	brand        TEXT NOT NULL DEFAULT '',
	producer     TEXT NOT NULL DEFAULT '',
	volume       REAL NOT NULL DEFAULT 0,
	category     TEXT NOT NULL DEFAULT '',
	subcategory  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS unresolved (
	xname       TEXT PRIMARY KEY,
	brand       TEXT NOT NULL,
	raw_brand   TEXT NOT NULL,
	producer    TEXT NOT NULL,
	volume      REAL NOT NULL,
	category    TEXT NOT NULL,
	subcategory TEXT NOT NULL,
	pack_format TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_aliases_canonical_id ON aliases(canonical_id);
`

// поля эталона в aliases появились позже; старые базы догоняем ALTER-ами
var aliasColumns = []struct{ name, ddl string }{
	{"brand", "TEXT NOT NULL DEFAULT ''"},
	{"producer", "TEXT NOT NULL DEFAULT ''"},
	{"volume", "REAL NOT NULL DEFAULT 0"},
	{"category", "TEXT NOT NULL DEFAULT ''"},
	{"subcategory", "TEXT NOT NULL DEFAULT ''"},
}

func (s *SQLite) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	have, err := s.columns(ctx, "aliases")
	if err != nil {
		return err
	}
	for _, c := range aliasColumns {
		if have[c.name] {
			continue
		}
		if _, err := s.db.ExecContext(ctx, "ALTER TABLE aliases ADD COLUMN "+c.name+" "+c.ddl); err != nil {
			return eris.Wrapf(err, "sqlite: add aliases.%s", c.name)
		}
	}
	return nil
}

func (s *SQLite) columns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: columns of %s", table)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrapf(err, "sqlite: columns of %s", table)
		}
		out[name] = true
	}
	return out, eris.Wrapf(rows.Err(), "sqlite: columns of %s", table)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// WriteIndex заменяет индекс целиком в одной транзакции.
func (s *SQLite) WriteIndex(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	for _, q := range []string{`DELETE FROM aliases`, `DELETE FROM canonicals`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return eris.Wrapf(err, "sqlite: %s", q)
		}
	}

	insCan, err := tx.PrepareContext(ctx,
		`INSERT INTO canonicals (id, brand, producer, volume, category, subcategory) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare canonicals")
	}
	defer insCan.Close()
	byID := make(map[int]model.CanonicalProduct, len(snap.Canonicals))
	for _, cp := range snap.Canonicals {
		byID[cp.ID] = cp
		if _, err := insCan.ExecContext(ctx, cp.ID, cp.Brand, cp.Producer, cp.Volume, cp.Category, cp.Subcategory); err != nil {
			return eris.Wrapf(err, "sqlite: insert canonical %d", cp.ID)
		}
	}

	insAlias, err := tx.PrepareContext(ctx,
		`INSERT INTO aliases (pos, xname, canonical_id, brand, producer, volume, category, subcategory)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare aliases")
	}
	defer insAlias.Close()
	for i, a := range snap.Aliases {
		// поля эталона дублируются, чтобы таблицу можно было читать без join
		cp := byID[a.CanonicalID]
		if _, err := insAlias.ExecContext(ctx, i+1, a.Name, a.CanonicalID,
			cp.Brand, cp.Producer, cp.Volume, cp.Category, cp.Subcategory); err != nil {
			return eris.Wrapf(err, "sqlite: insert alias %q", a.Name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLite) ReadIndex(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, brand, producer, volume, category, subcategory FROM canonicals ORDER BY id`)
	if err != nil {
		return snap, eris.Wrap(err, "sqlite: query canonicals")
	}
	for rows.Next() {
		var cp model.CanonicalProduct
		if err := rows.Scan(&cp.ID, &cp.Brand, &cp.Producer, &cp.Volume, &cp.Category, &cp.Subcategory); err != nil {
			rows.Close()
			return snap, eris.Wrap(err, "sqlite: scan canonical")
		}
		snap.Canonicals = append(snap.Canonicals, cp)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return snap, eris.Wrap(err, "sqlite: iterate canonicals")
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT xname, canonical_id FROM aliases ORDER BY pos`)
	if err != nil {
		return snap, eris.Wrap(err, "sqlite: query aliases")
	}
	defer rows.Close()
	for rows.Next() {
		var a model.Alias
		if err := rows.Scan(&a.Name, &a.CanonicalID); err != nil {
			return snap, eris.Wrap(err, "sqlite: scan alias")
		}
		snap.Aliases = append(snap.Aliases, a)
	}
	return snap, eris.Wrap(rows.Err(), "sqlite: iterate aliases")
}

// WriteUnresolved копит журнал между запусками: уже записанный текст
// запроса не перезаписывается.
func (s *SQLite) WriteUnresolved(ctx context.Context, items []model.UnresolvedItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO unresolved (xname, brand, raw_brand, producer, volume, category, subcategory, pack_format)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(xname) DO NOTHING`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare unresolved")
	}
	defer stmt.Close()
	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, it.Query, it.Brand, it.RawBrand, it.Producer,
			it.Volume, it.Category, it.Subcategory, it.PackFormat); err != nil {
			return eris.Wrapf(err, "sqlite: insert unresolved %q", it.Query)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// ListUnresolved: накопленный журнал в порядке добавления.
func (s *SQLite) ListUnresolved(ctx context.Context) ([]model.UnresolvedItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT xname, brand, raw_brand, producer, volume, category, subcategory, pack_format
		FROM unresolved ORDER BY rowid`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query unresolved")
	}
	defer rows.Close()

	var out []model.UnresolvedItem
	for rows.Next() {
		var it model.UnresolvedItem
		if err := rows.Scan(&it.Query, &it.Brand, &it.RawBrand, &it.Producer,
			&it.Volume, &it.Category, &it.Subcategory, &it.PackFormat); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan unresolved")
		}
		out = append(out, it)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate unresolved")
}
