// Package store хранит индекс и журнал нераспознанных (xlsx или SQLite)
// и читает справочник из SQL.
package store

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"brain-service/internal/brain/resolver"
)

// ErrUnsupportedFormat: по расширению не понять, куда писать.
var ErrUnsupportedFormat = eris.New("store: unsupported format")

// Index: сохранённый индекс.
type Index interface {
	resolver.IndexWriter
	resolver.IndexReader
	io.Closer
}

// Unresolved: журнал нераспознанных.
type Unresolved interface {
	resolver.UnresolvedWriter
	io.Closer
}

func isSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func isXLSX(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".xlsx"
}

// OpenIndex выбирает хранилище по расширению: .xlsx или .db/.sqlite/.sqlite3.
func OpenIndex(path string) (Index, error) {
	switch {
	case isXLSX(path):
		return NewWorkbook(path), nil
	case isSQLite(path):
		s, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, eris.Wrapf(ErrUnsupportedFormat, "index %s", path)
}

// OpenUnresolved: то же для журнала нераспознанных.
func OpenUnresolved(path string) (Unresolved, error) {
	switch {
	case isXLSX(path):
		return NewWorkbook(path), nil
	case isSQLite(path):
		s, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, eris.Wrapf(ErrUnsupportedFormat, "unresolved %s", path)
}

// Exists: есть ли файл индекса на диске.
func Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
