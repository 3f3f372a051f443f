package fileio

import (
	"bytes"
	"io"

	"github.com/rotisserie/eris"
	excelize "github.com/xuri/excelize/v2"
)

// readXLSX читает лист sheet (пустой — первый лист книги). raw — значения
// как записаны, без числовых форматов ячеек.
func readXLSX(r io.Reader, sheet string, headerRow int, raw bool) (Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Table{}, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return Table{}, eris.Errorf("xlsx: sheet %q not found", sheet)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: raw})
	if err != nil {
		return Table{}, err
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	h := pickHeader(rows, headerRow)
	return Table{Headers: h, Rows: rowsToMaps(rows, h, headerRow)}, nil
}

// ReadXLSXSheet читает именованный лист книги, значения сырые.
func ReadXLSXSheet(r io.Reader, sheet string, headerRow int) ([]map[string]string, error) {
	t, err := readXLSX(r, sheet, headerRow, true)
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %s", sheet)
	}
	return t.Rows, nil
}

// Sheet — лист для записи.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// WriteXLSX пишет листы в одну книгу, в заданном порядке.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return eris.New("xlsx: nothing to write")
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.Name); err != nil {
				return eris.Wrapf(err, "xlsx: rename sheet %s", sh.Name)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return eris.Wrapf(err, "xlsx: new sheet %s", sh.Name)
		}

		sw, err := f.NewStreamWriter(sh.Name)
		if err != nil {
			return eris.Wrapf(err, "xlsx: stream %s", sh.Name)
		}
		header := make([]any, len(sh.Headers))
		for j, v := range sh.Headers {
			header[j] = v
		}
		if err := sw.SetRow("A1", header); err != nil {
			return eris.Wrap(err, "xlsx: header")
		}
		for r, row := range sh.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return eris.Wrap(err, "xlsx: cell")
			}
			if err := sw.SetRow(cell, row); err != nil {
				return eris.Wrapf(err, "xlsx: row %d", r+2)
			}
		}
		if err := sw.Flush(); err != nil {
			return eris.Wrapf(err, "xlsx: flush %s", sh.Name)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return eris.Wrap(err, "xlsx: write")
	}
	return nil
}
