package status

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// aliasFile is the on-disk shape of a status alias file:
//
//	aliases:
//	  "Kabul": Onaylandı
//	  "In Review": Değerlendiriliyor
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// ParseAliasesYAML decodes an alias file payload. An empty payload yields no
// aliases.
func ParseAliasesYAML(data []byte) (map[string]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("status: decode aliases: %w", err)
	}
	for alias, target := range f.Aliases {
		if !IsCanonical(target) {
			return nil, fmt.Errorf("status: alias %q targets non-canonical status %q", alias, target)
		}
	}
	return f.Aliases, nil
}

// LoadNormalizer builds a Normalizer from the alias file at path. An empty
// path returns the default normalizer.
func LoadNormalizer(path string) (*Normalizer, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("status: read %s: %w", path, err)
	}
	aliases, err := ParseAliasesYAML(data)
	if err != nil {
		return nil, fmt.Errorf("status: %s: %w", path, err)
	}
	return NewNormalizer(aliases)
}
