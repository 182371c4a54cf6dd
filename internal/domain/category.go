package domain

import (
	"encoding/json"
	"fmt"
)

// Category is the closed set of product categories a warranty can belong to.
// The string value is the wire and storage representation.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryAppliances  Category = "appliances"
	CategoryFurniture   Category = "furniture"
	CategoryClothing    Category = "clothing"
	CategoryAutomotive  Category = "automotive"
	CategorySports      Category = "sports"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryAppliances,
		CategoryFurniture,
		CategoryClothing,
		CategoryAutomotive,
		CategorySports,
		CategoryOther,
	}
}

var categoryMeta = map[Category]struct {
	name          string
	nameFr        string
	defaultMonths int
}{
	CategoryElectronics: {"Electronics", "Électronique", 24},
	CategoryAppliances:  {"Appliances", "Électroménager", 24},
	CategoryFurniture:   {"Furniture", "Mobilier", 24},
	CategoryClothing:    {"Clothing", "Vêtements", 6},
	CategoryAutomotive:  {"Automotive", "Automobile", 24},
	CategorySports:      {"Sports", "Sport", 12},
	CategoryOther:       {"Other", "Autre", 24},
}

// ParseCategory maps a lowercase wire name to its Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryMeta[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := categoryMeta[c]
	return ok
}

// DisplayName returns the English display label.
func (c Category) DisplayName() string {
	return categoryMeta[c].name
}

// DisplayNameFr returns the French display label.
func (c Category) DisplayNameFr() string {
	return categoryMeta[c].nameFr
}

// DefaultWarrantyMonths is the duration assumed when a warranty is
// created without an explicit month count.
func (c Category) DefaultWarrantyMonths() int {
	return categoryMeta[c].defaultMonths
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CategoryInfo is the static reference entry served by the categories endpoint.
type CategoryInfo struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	NameFr                string `json:"name_fr"`
	DefaultWarrantyMonths int    `json:"default_warranty_months"`
}

// CategoryInfos returns the reference list for every category.
func CategoryInfos() []CategoryInfo {
	cats := Categories()
	infos := make([]CategoryInfo, 0, len(cats))
	for _, c := range cats {
		infos = append(infos, CategoryInfo{
			ID:                    string(c),
			Name:                  c.DisplayName(),
			NameFr:                c.DisplayNameFr(),
			DefaultWarrantyMonths: c.DefaultWarrantyMonths(),
		})
	}
	return infos
}
