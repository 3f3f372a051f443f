package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Dictionary: ручные дополнения к словарям. Встроенные таблицы они
// только расширяют.
type Dictionary struct {
	// аббревиатура -> бренд, например "ТЗ": "TORNADO"
	Abbreviations map[string]string `yaml:"abbreviations"`
}

// LoadDictionary читает YAML-файл словаря. Пустой путь — пустой словарь.
func LoadDictionary(path string) (Dictionary, error) {
	var d Dictionary
	if path == "" {
		return d, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return d, eris.Wrapf(err, "config: read dictionary %s", path)
	}
	if err := yaml.Unmarshal(b, &d); err != nil {
		return d, eris.Wrapf(err, "config: parse dictionary %s", path)
	}
	return d, nil
}
