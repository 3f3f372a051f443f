package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brain-service/internal/brain/catalog"
	"brain-service/internal/brain/model"
	"brain-service/internal/brain/resolver"
	"brain-service/internal/fileio"
)

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		Canonicals: []model.CanonicalProduct{
			{ID: 1, Brand: "BURN", Producer: "КОКА-КОЛА", Volume: 0.45, Category: "ЭНЕРГЕТИКИ", Subcategory: "Энергетические напитки ж/б"},
			{ID: 2, Brand: "LOCAL", Producer: "ЗАВОД", Volume: 1.5, Category: "ГАЗИРОВКА"},
		},
		Aliases: []model.Alias{
			{Name: "BURN ЯБЛОКО 0,45Л Ж/Б", CanonicalID: 1},
			{Name: "ЛИМОНАД ДЮШЕС 1,5Л", CanonicalID: 2},
			{Name: "BURN 0,45Л", CanonicalID: 1},
		},
	}
}

func testUnresolved() []model.UnresolvedItem {
	return []model.UnresolvedItem{
		{Query: "Квас Хлебный 1л", Brand: "КВАС", RawBrand: "КВАС", Producer: "UNKNOWN", Volume: 1, Category: "ПРОЧЕЕ", Subcategory: "Квас"},
		{Query: "Газировка Буратино 0,5л", Brand: "LOCAL", RawBrand: "ГАЗИРОВКА", Producer: "UNKNOWN", Volume: 0.5, Category: "ГАЗИРОВКА", Subcategory: "Газированные напитки", PackFormat: "PET"},
	}
}

func TestWorkbook_IndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "product_brain.xlsx")
	wb := NewWorkbook(path)

	require.NoError(t, wb.WriteIndex(ctx, testSnapshot()))
	assert.True(t, Exists(path))

	got, err := wb.ReadIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), got)
}

func TestWorkbook_DenormalizedAliases(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "product_brain.xlsx")
	require.NoError(t, NewWorkbook(path).WriteIndex(ctx, testSnapshot()))

	recs, err := fileio.ReadFile(path, 1)
	require.NoError(t, err)
	// первый лист — эталоны
	require.Len(t, recs, 2)
	assert.Equal(t, "BURN", recs[0]["brand2"])
}

func TestWorkbook_ReadMissing(t *testing.T) {
	_, err := NewWorkbook(filepath.Join(t.TempDir(), "none.xlsx")).ReadIndex(context.Background())
	assert.Error(t, err)
}

func TestWorkbook_Unresolved(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "unrecognized_xnames.xlsx")
	require.NoError(t, NewWorkbook(path).WriteUnresolved(ctx, testUnresolved()))

	recs, err := fileio.ReadFile(path, 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Квас Хлебный 1л", recs[0]["xname"])
	assert.Equal(t, "ГАЗИРОВКА", recs[1]["raw_brand"])
	assert.Equal(t, "UNKNOWN", recs[1]["proizvod2"])
	assert.Equal(t, "PET", recs[1]["pack_format"])
}

func TestSQLite_IndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "brain.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.WriteIndex(ctx, testSnapshot()))
	// повторная запись заменяет, а не дописывает
	require.NoError(t, s.WriteIndex(ctx, testSnapshot()))

	got, err := s.ReadIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), got)
}

func TestSQLite_DenormalizedAliases(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "brain.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.WriteIndex(ctx, testSnapshot()))

	var (
		brand, producer, category, subcategory string
		volume                                 float64
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT brand, producer, volume, category, subcategory FROM aliases WHERE xname = ?`,
		"BURN 0,45Л").Scan(&brand, &producer, &volume, &category, &subcategory)
	require.NoError(t, err)
	assert.Equal(t, "BURN", brand)
	assert.Equal(t, "КОКА-КОЛА", producer)
	assert.InDelta(t, 0.45, volume, 1e-9)
	assert.Equal(t, "ЭНЕРГЕТИКИ", category)
	assert.Equal(t, "Энергетические напитки ж/б", subcategory)
}

func TestSQLite_MigratesOldAliases(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "brain.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE canonicals (id INTEGER PRIMARY KEY, brand TEXT NOT NULL, producer TEXT NOT NULL,
			volume REAL NOT NULL, category TEXT NOT NULL, subcategory TEXT NOT NULL DEFAULT '');
		CREATE TABLE aliases (pos INTEGER PRIMARY KEY, xname TEXT NOT NULL UNIQUE,
			canonical_id INTEGER NOT NULL REFERENCES canonicals(id));`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.WriteIndex(ctx, testSnapshot()))

	got, err := s.ReadIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), got)
}

func TestSQLite_UnknownCanonicalRejected(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "brain.db"))
	require.NoError(t, err)
	defer s.Close()

	snap := testSnapshot()
	snap.Aliases = append(snap.Aliases, model.Alias{Name: "X", CanonicalID: 99})
	assert.Error(t, s.WriteIndex(ctx, snap))
}

func TestSQLite_UnresolvedAccumulates(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "brain.db"))
	require.NoError(t, err)
	defer s.Close()

	items := testUnresolved()
	require.NoError(t, s.WriteUnresolved(ctx, items[:1]))

	again := items[0]
	again.Brand = "ДРУГОЙ"
	require.NoError(t, s.WriteUnresolved(ctx, []model.UnresolvedItem{again, items[1]}))

	got, err := s.ListUnresolved(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, items, got)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	idx, err := OpenIndex(filepath.Join(dir, "brain.xlsx"))
	require.NoError(t, err)
	assert.IsType(t, &Workbook{}, idx)

	idx, err = OpenIndex(filepath.Join(dir, "brain.sqlite"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, idx)
	require.NoError(t, idx.Close())

	_, err = OpenIndex(filepath.Join(dir, "brain.json"))
	assert.True(t, eris.Is(err, ErrUnsupportedFormat))

	_, err = OpenUnresolved(filepath.Join(dir, "log.txt"))
	assert.True(t, eris.Is(err, ErrUnsupportedFormat))
}

func TestLoadCatalog_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "product.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE product (xname TEXT, brand2 TEXT, proizvod2 TEXT, litrag REAL, category TEXT, subcategory TEXT);
		INSERT INTO product VALUES ('BURN Яблоко 0,45л ж/б', 'BURN', 'Кока-Кола', 0.45, 'ЭНЕРГЕТИКИ', NULL);
		INSERT INTO product VALUES ('Лимонад Дюшес 1,5л', 'LOCAL', 'Завод', 1.5, 'ГАЗИРОВКА', 'Лимонады дюшес');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	rows, err := LoadCatalog(ctx, DriverSQLite, path, "", catalog.DefaultMapping())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.CatalogRow{
		Name: "BURN Яблоко 0,45л ж/б", Brand: "BURN", Producer: "Кока-Кола", Category: "ЭНЕРГЕТИКИ", Volume: 0.45,
	}, rows[0])
	assert.Equal(t, "Лимонады дюшес", rows[1].Subcategory)

	_, err = LoadCatalog(ctx, "oracle", "", "", catalog.DefaultMapping())
	assert.True(t, eris.Is(err, ErrUnsupportedFormat))

	_, err = LoadCatalog(ctx, DriverSQLite, path, `SELECT xname FROM product`, catalog.DefaultMapping())
	assert.True(t, eris.Is(err, catalog.ErrMissingColumn))

	// пустая выборка: колонки всё равно проверяются
	_, err = LoadCatalog(ctx, DriverSQLite, path, `SELECT xname FROM product WHERE 0`, catalog.DefaultMapping())
	assert.True(t, eris.Is(err, catalog.ErrMissingColumn))
	_, err = LoadCatalog(ctx, DriverSQLite, path, `SELECT * FROM product WHERE 0`, catalog.DefaultMapping())
	assert.True(t, eris.Is(err, catalog.ErrEmpty))
}

func TestResolverSaveLoadThroughStores(t *testing.T) {
	ctx := context.Background()
	rows := []model.CatalogRow{
		{Name: "BURN Яблоко 0,45л ж/б", Brand: "BURN", Producer: "Кока-Кола", Category: "ЭНЕРГЕТИКИ", Volume: 0.45},
		{Name: "Лимонад Дюшес 1,5л", Brand: "LOCAL", Producer: "Завод", Category: "ГАЗИРОВКА", Volume: 1.5},
	}
	r := resolver.Build(rows, model.DefaultOptions(), zerolog.Nop())

	for _, name := range []string{"brain.xlsx", "brain.db"} {
		t.Run(name, func(t *testing.T) {
			idx, err := OpenIndex(filepath.Join(t.TempDir(), name))
			require.NoError(t, err)
			defer idx.Close()

			require.NoError(t, r.Save(ctx, idx))
			loaded, err := resolver.Load(ctx, idx, model.DefaultOptions(), zerolog.Nop())
			require.NoError(t, err)

			assert.Equal(t, r.Canonicals(), loaded.Canonicals())
			res := loaded.Lookup("burn яблоко 0,45л ж/б")
			assert.Equal(t, model.MethodExact, res.Method)
			assert.Equal(t, "BURN", res.Brand)
		})
	}
}
