package model

// Категории, которые различает детектор.
const (
	CategoryEnergy = "ЭНЕРГЕТИКИ"
	CategorySoda   = "ГАЗИРОВКА"
	CategoryOther  = "ПРОЧЕЕ"
)

// GenericBrand: корзина безбрендовых/собственных товаров.
// Её алиасы никогда не перекрывают алиасы настоящих брендов.
const GenericBrand = "LOCAL"

// UnknownProducer подставляется, когда производителя вытащить не удалось.
const UnknownProducer = "UNKNOWN"

// Методы каскада поиска.
const (
	MethodExact         = "exact"
	MethodCleaned       = "cleaned"
	MethodSearchKey     = "search_key"
	MethodBrandVolume   = "brand_volume"
	MethodBrandMatch    = "brand_match"
	MethodFuzzyCategory = "fuzzy_category"
	MethodFuzzyGlobal   = "fuzzy_global"
	MethodParsed        = "parsed"
	MethodNotFound      = "not_found"
)

// CatalogRow: строка эталонного справочника (product).
type CatalogRow struct {
	Name        string  `json:"xname"`       // исходное наименование
	Brand       string  `json:"brand"`       // brand2
	Producer    string  `json:"producer"`    // proizvod2
	Category    string  `json:"category"`    // category
	Volume      float64 `json:"volume"`      // litrag, литры
	Subcategory string  `json:"subcategory"` // опционально
}

// CanonicalProduct: эталон, одна запись на (brand, producer, volume, category).
type CanonicalProduct struct {
	ID          int     `json:"id"`
	Brand       string  `json:"brand"`
	Producer    string  `json:"producer"`
	Volume      float64 `json:"volume"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
}

// Alias: сырое наименование, которое резолвится в эталон.
type Alias struct {
	Name        string `json:"xname"`
	CanonicalID int    `json:"canonical_id"`
}

// LookupResult: результат одного вызова Lookup.
type LookupResult struct {
	Found        bool    `json:"found"`
	Method       string  `json:"method"`
	Confidence   float64 `json:"confidence"`
	CanonicalID  *int    `json:"canonical_id"`
	Brand        string  `json:"brand"`
	Producer     string  `json:"producer"`
	Volume       float64 `json:"volume"`
	Category     string  `json:"category"`
	Subcategory  string  `json:"subcategory"`
	PackFormat   string  `json:"pack_format,omitempty"`
	MatchedAlias string  `json:"matched_alias"`
}

// UnresolvedItem: запись о нераспознанном наименовании с авторазбором.
type UnresolvedItem struct {
	Query       string  `json:"xname"`
	Brand       string  `json:"brand"`
	RawBrand    string  `json:"raw_brand"`
	Producer    string  `json:"producer"`
	Volume      float64 `json:"volume"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	PackFormat  string  `json:"pack_format"`
}

// Options: пороги каскада.
type Options struct {
	FuzzyThreshold      float64 // порог token-set similarity (0..100)
	BrandFuzzyThreshold float64 // порог, если бренд уже уверенно найден
	BrandMinConfidence  float64 // минимальная уверенность бренда для шага brand+volume
	VolumeTolerance     float64 // допуск по литражу, л
	ExtraAbbreviations  map[string]string
}

// DefaultOptions: значения как в исходной системе.
func DefaultOptions() Options {
	return Options{
		FuzzyThreshold:      75,
		BrandFuzzyThreshold: 85,
		BrandMinConfidence:  85,
		VolumeTolerance:     0.02,
	}
}

// Stats: сводка по построенному индексу.
type Stats struct {
	Canonicals          int            `json:"canonicals"`
	Branded             int            `json:"branded"`
	Generic             int            `json:"generic"`
	Brands              int            `json:"brands"`
	AliasesExact        int            `json:"aliases_exact"`
	AliasesCleaned      int            `json:"aliases_cleaned"`
	AliasesSearchKey    int            `json:"aliases_search_key"`
	Synonyms            int            `json:"synonyms"`
	Abbreviations       int            `json:"abbreviations"`
	Pools               map[string]int `json:"pools"`
	FuzzyThreshold      float64        `json:"fuzzy_threshold"`
	BrandFuzzyThreshold float64        `json:"brand_fuzzy_threshold"`
	Unresolved          int            `json:"unresolved"`
}

// Snapshot: то, что сохраняется, то есть эталоны и точные алиасы.
type Snapshot struct {
	Canonicals []CanonicalProduct `json:"canonicals"`
	Aliases    []Alias            `json:"aliases"`
}
