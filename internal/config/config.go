package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"

	"brain-service/internal/brain/model"
	"brain-service/internal/store"
)

type Config struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	LogLevel     string   `mapstructure:"log_level"`
	MaxUploadMB  int      `mapstructure:"max_upload_mb"`
	LogFile      string   `mapstructure:"log_file"`

	// Справочник: файл или SQL (CatalogDriver не пустой)
	CatalogPath   string `mapstructure:"catalog_path"`
	CatalogDriver string `mapstructure:"catalog_driver"`
	CatalogDSN    string `mapstructure:"catalog_dsn"`
	CatalogQuery  string `mapstructure:"catalog_query"`

	BrainPath      string `mapstructure:"brain_path"`
	UnresolvedPath string `mapstructure:"unresolved_path"`

	FuzzyThreshold      float64 `mapstructure:"fuzzy_threshold"`
	BrandFuzzyThreshold float64 `mapstructure:"brand_fuzzy_threshold"`
	BatchWorkers        int     `mapstructure:"batch_workers"`
	DictionaryFile      string  `mapstructure:"dictionary_file"`
}

// Load: brain.yaml в рабочей папке (если есть), поверх — переменные окружения
// (HOST, PORT, FUZZY_THRESHOLD...).
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigName("brain")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8082)
	v.SetDefault("allow_origins", []string{"*"})
	v.SetDefault("log_level", "info")
	v.SetDefault("max_upload_mb", 256)
	v.SetDefault("log_file", "logs/brain-service.log")
	v.SetDefault("catalog_path", "product.xlsx")
	v.SetDefault("catalog_driver", "")
	v.SetDefault("catalog_dsn", "")
	v.SetDefault("catalog_query", store.DefaultCatalogQuery)
	v.SetDefault("brain_path", "product_brain.xlsx")
	v.SetDefault("unresolved_path", "unrecognized_xnames.xlsx")
	v.SetDefault("fuzzy_threshold", 75)
	v.SetDefault("brand_fuzzy_threshold", 85)
	v.SetDefault("batch_workers", 4)
	v.SetDefault("dictionary_file", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "config: unmarshal")
	}
	cfg.AllowOrigins = splitOrigins(cfg.AllowOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет пороги и числовые параметры.
func (c Config) Validate() error {
	var errs []string
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("port %d out of range", c.Port))
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		errs = append(errs, fmt.Sprintf("fuzzy_threshold %.1f not in [0,100]", c.FuzzyThreshold))
	}
	if c.BrandFuzzyThreshold < 0 || c.BrandFuzzyThreshold > 100 {
		errs = append(errs, fmt.Sprintf("brand_fuzzy_threshold %.1f not in [0,100]", c.BrandFuzzyThreshold))
	}
	if c.BatchWorkers < 1 {
		errs = append(errs, "batch_workers must be >= 1")
	}
	if c.MaxUploadMB < 1 {
		errs = append(errs, "max_upload_mb must be >= 1")
	}
	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// Options: пороги каскада; остальное по умолчанию.
func (c Config) Options(extraAbbreviations map[string]string) model.Options {
	opts := model.DefaultOptions()
	opts.FuzzyThreshold = c.FuzzyThreshold
	opts.BrandFuzzyThreshold = c.BrandFuzzyThreshold
	opts.ExtraAbbreviations = extraAbbreviations
	return opts
}

// UseSQLCatalog: справочник читается из базы, а не из файла.
func (c Config) UseSQLCatalog() bool { return c.CatalogDriver != "" }

// "a, b" из окружения приходит одной строкой
func splitOrigins(in []string) []string {
	var out []string
	for _, s := range in {
		for _, o := range strings.Split(s, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
