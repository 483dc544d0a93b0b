package catalogrepo

import (
	"errors"
	"fmt"
	"io"
	"os"

	"ordering/internal/core/domain/model/menu"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Price     string       `yaml:"price"`
	Available *bool        `yaml:"available"`
	Sizes     []seedSize   `yaml:"sizes"`
	Options   []seedOption `yaml:"options"`
}

type seedSize struct {
	Name      string `yaml:"name"`
	Price     string `yaml:"price"`
	Available *bool  `yaml:"available"`
}

type seedOption struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Price     string `yaml:"price"`
	Available *bool  `yaml:"available"`
	PerLine   bool   `yaml:"per_line"`
}

// LoadSeedFile reads menu items from a YAML file.
func LoadSeedFile(path string) ([]menu.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseSeed(f)
}

// ParseSeed decodes menu items from YAML. Omitted availability means
// available and an omitted price means free.
func ParseSeed(r io.Reader) ([]menu.Item, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode menu seed: %w", err)
	}

	items := make([]menu.Item, 0, len(file.Items))
	for _, si := range file.Items {
		item, err := si.toDomain()
		if err != nil {
			return nil, fmt.Errorf("menu item %s: %w", si.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s seedItem) toDomain() (menu.Item, error) {
	price, err := parsePrice(s.Price)
	if err != nil {
		return menu.Item{}, err
	}
	item := menu.Item{ID: s.ID, Name: s.Name, Price: price, Available: availableOrDefault(s.Available)}

	for _, sz := range s.Sizes {
		p, err := parsePrice(sz.Price)
		if err != nil {
			return menu.Item{}, fmt.Errorf("size %s: %w", sz.Name, err)
		}
		item.Sizes = append(item.Sizes, menu.Size{Name: sz.Name, Price: p, Available: availableOrDefault(sz.Available)})
	}
	for _, o := range s.Options {
		p, err := parsePrice(o.Price)
		if err != nil {
			return menu.Item{}, fmt.Errorf("option %s: %w", o.ID, err)
		}
		item.Options = append(item.Options, menu.Option{
			ID:        o.ID,
			Name:      o.Name,
			Price:     p,
			Available: availableOrDefault(o.Available),
			PerLine:   o.PerLine,
		})
	}
	return item, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q: %w", s, err)
	}
	return d, nil
}

func availableOrDefault(b *bool) bool {
	return b == nil || *b
}
