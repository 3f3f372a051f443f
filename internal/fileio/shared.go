package fileio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnsupported — формат файла не поддерживается.
var ErrUnsupported = eris.New("fileio: unsupported file format")

// Supported — умеем ли читать файл с таким именем.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls", ".csv":
		return true
	}
	return false
}

// Table — прочитанная таблица: заголовки в порядке файла и строки.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Sheet — таблица как лист для записи, колонки в порядке Headers.
func (t Table) Sheet(name string) Sheet {
	sh := Sheet{Name: name, Headers: t.Headers, Rows: make([][]any, 0, len(t.Rows))}
	for _, rec := range t.Rows {
		row := make([]any, len(t.Headers))
		for i, h := range t.Headers {
			row[i] = rec[h]
		}
		sh.Rows = append(sh.Rows, row)
	}
	return sh
}

// ReadAnyTable — выберет парсер по расширению. headerRow — номер строки заголовков (1-based).
func ReadAnyTable(r io.Reader, filename string, headerRow int) (Table, error) {
	var (
		t   Table
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		t, err = readXLSX(r, "", headerRow, false)
	case ".xls":
		t, err = readXLS(r, headerRow)
	case ".csv":
		t, err = readCSV(r, headerRow)
	default:
		return Table{}, eris.Wrapf(ErrUnsupported, "file %s", filename)
	}
	if err != nil {
		return Table{}, eris.Wrapf(err, "read %s", filename)
	}
	return t, nil
}

// ReadAnyMaps — то же, только строки как срез map[header]value.
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	t, err := ReadAnyTable(r, filename, headerRow)
	return t.Rows, err
}

// ReadFile — ReadAnyMaps по пути на диске.
func ReadFile(path string, headerRow int) ([]map[string]string, error) {
	t, err := ReadTableFile(path, headerRow)
	return t.Rows, err
}

// ReadTableFile — ReadAnyTable по пути на диске.
func ReadTableFile(path string, headerRow int) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ReadAnyTable(f, path, headerRow)
}

// pickHeader — берёт строку заголовков и подставляет Column N для пустых.
// Повторяющиеся заголовки получают суффикс " (2)", " (3)"...
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		v = normalizeCell(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		seen[v]++
		if n := seen[v]; n > 1 {
			v = fmt.Sprintf("%s (%d)", v, n)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps — конвертирует AoA в []map по заголовкам, пропуская полностью пустые строки.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow // первая строка после заголовков
	if start < 1 {
		start = 1
	}
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = normalizeCell(rec[c])
			}
			if v != "" {
				empty = false
			}
			m[headers[c]] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

var cellSpaces = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "\r", "", "\t", " ")

// normalizeCell — неразрывные пробелы в обычные, края обрезаны.
func normalizeCell(s string) string {
	return strings.TrimSpace(cellSpaces.Replace(s))
}
