package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"brain-service/internal/brain/model"
	"brain-service/internal/fileio"
	"brain-service/internal/utils"
)

// Листы книги индекса.
const (
	SheetCanonicals = "Эталоны"
	SheetAliases    = "Алиасы"
	SheetUnresolved = "Нераспознанные"
)

var (
	canonicalHeaders  = []string{"id", "brand2", "proizvod2", "litrag", "category", "subcategory"}
	aliasHeaders      = []string{"xname", "canonical_id", "brand2", "proizvod2", "litrag", "category", "subcategory"}
	unresolvedHeaders = []string{"xname", "brand2", "raw_brand", "proizvod2", "litrag", "category", "subcategory", "pack_format"}
)

// Workbook хранит индекс в книге xlsx, эталоны и алиасы на двух листах.
// Поля эталона у алиаса дублируются, чтобы книгу было удобно читать глазами.
type Workbook struct {
	path string
}

func NewWorkbook(path string) *Workbook { return &Workbook{path: path} }

func (w *Workbook) Close() error { return nil }

func (w *Workbook) WriteIndex(ctx context.Context, snap model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	byID := make(map[int]model.CanonicalProduct, len(snap.Canonicals))
	can := fileio.Sheet{Name: SheetCanonicals, Headers: canonicalHeaders}
	for _, cp := range snap.Canonicals {
		byID[cp.ID] = cp
		can.Rows = append(can.Rows, []any{cp.ID, cp.Brand, cp.Producer, cp.Volume, cp.Category, cp.Subcategory})
	}

	al := fileio.Sheet{Name: SheetAliases, Headers: aliasHeaders}
	for _, a := range snap.Aliases {
		cp := byID[a.CanonicalID]
		al.Rows = append(al.Rows, []any{a.Name, a.CanonicalID, cp.Brand, cp.Producer, cp.Volume, cp.Category, cp.Subcategory})
	}
	return writeAtomic(w.path, can, al)
}

func (w *Workbook) ReadIndex(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := ctx.Err(); err != nil {
		return snap, err
	}
	b, err := os.ReadFile(w.path)
	if err != nil {
		return snap, eris.Wrapf(err, "workbook: read %s", w.path)
	}

	can, err := fileio.ReadXLSXSheet(bytes.NewReader(b), SheetCanonicals, 1)
	if err != nil {
		return snap, err
	}
	for i, rec := range can {
		id, err := strconv.Atoi(strings.TrimSpace(rec["id"]))
		if err != nil {
			return snap, eris.Wrapf(err, "workbook: %s row %d: id", SheetCanonicals, i+2)
		}
		vol, _ := utils.ParseFloatRU(rec["litrag"])
		snap.Canonicals = append(snap.Canonicals, model.CanonicalProduct{
			ID:          id,
			Brand:       rec["brand2"],
			Producer:    rec["proizvod2"],
			Volume:      vol,
			Category:    rec["category"],
			Subcategory: rec["subcategory"],
		})
	}

	al, err := fileio.ReadXLSXSheet(bytes.NewReader(b), SheetAliases, 1)
	if err != nil {
		return snap, err
	}
	for i, rec := range al {
		id, err := strconv.Atoi(strings.TrimSpace(rec["canonical_id"]))
		if err != nil {
			return snap, eris.Wrapf(err, "workbook: %s row %d: canonical_id", SheetAliases, i+2)
		}
		snap.Aliases = append(snap.Aliases, model.Alias{Name: rec["xname"], CanonicalID: id})
	}
	return snap, nil
}

// WriteUnresolved перезаписывает книгу журналом.
func (w *Workbook) WriteUnresolved(ctx context.Context, items []model.UnresolvedItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sh := fileio.Sheet{Name: SheetUnresolved, Headers: unresolvedHeaders}
	for _, it := range items {
		sh.Rows = append(sh.Rows, []any{
			it.Query, it.Brand, it.RawBrand, it.Producer, it.Volume,
			it.Category, it.Subcategory, it.PackFormat,
		})
	}
	return writeAtomic(w.path, sh)
}

// writeAtomic пишет во временный файл рядом и переименовывает.
func writeAtomic(path string, sheets ...fileio.Sheet) error {
	if err := ensureDir(path); err != nil {
		return eris.Wrapf(err, "workbook: mkdir for %s", path)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".brain-*.xlsx")
	if err != nil {
		return eris.Wrap(err, "workbook: temp file")
	}
	defer os.Remove(tmp.Name())

	if err := fileio.WriteXLSX(tmp, sheets...); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "workbook: close temp")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "workbook: rename to %s", path)
	}
	return nil
}
