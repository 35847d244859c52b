package parser

import (
	_ "embed"
	"fmt"
	"os"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed data/reference.yaml
var referenceYAML []byte

// Reference dữ liệu tham chiếu tĩnh cho cleaner, name heuristic và municipality corrector
type Reference struct {
	Keywords         []string `yaml:"keywords"`
	Punctuation      string   `yaml:"punctuation"`
	Honorifics       []string `yaml:"honorifics"`
	Surnames         string   `yaml:"surnames"`
	CompoundSurnames []string `yaml:"compound_surnames"`
	Municipalities   []string `yaml:"municipalities"`
	CityPlaceholders []string `yaml:"city_placeholders"`
}

// DefaultReference load dữ liệu tham chiếu được embed sẵn
func DefaultReference() (*Reference, error) {
	ref := &Reference{}
	if err := yaml.Unmarshal(referenceYAML, ref); err != nil {
		return nil, fmt.Errorf("lỗi parse reference embed: %w", err)
	}
	return ref, nil
}

// LoadReference load dữ liệu tham chiếu từ file YAML. Các trường bỏ trống trong file
// giữ giá trị embed mặc định.
func LoadReference(path string) (*Reference, error) {
	ref, err := DefaultReference()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return ref, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc reference file: %w", err)
	}
	override := &Reference{}
	if err := yaml.Unmarshal(b, override); err != nil {
		return nil, fmt.Errorf("lỗi parse reference file %s: %w", path, err)
	}

	if len(override.Keywords) > 0 {
		ref.Keywords = override.Keywords
	}
	if override.Punctuation != "" {
		ref.Punctuation = override.Punctuation
	}
	if len(override.Honorifics) > 0 {
		ref.Honorifics = override.Honorifics
	}
	if override.Surnames != "" {
		ref.Surnames = override.Surnames
	}
	if len(override.CompoundSurnames) > 0 {
		ref.CompoundSurnames = override.CompoundSurnames
	}
	if len(override.Municipalities) > 0 {
		ref.Municipalities = override.Municipalities
	}
	if len(override.CityPlaceholders) > 0 {
		ref.CityPlaceholders = override.CityPlaceholders
	}
	return ref, nil
}

// surnameSet tập họ đơn, bỏ qua khoảng trắng và xuống dòng
func (r *Reference) surnameSet() map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, c := range r.Surnames {
		if unicode.IsSpace(c) {
			continue
		}
		set[c] = struct{}{}
	}
	return set
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
