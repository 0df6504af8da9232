// Package catalog is the fixed registry of monitored product variants.
package catalog

import (
	"github.com/needmomatcha/stockwatch/internal/domain"
)

// DefaultVariantID is the variant every new registration starts with.
const DefaultVariantID = "ikuyo_100g"

// variants lists the known catalog in website order (rich, medium, light).
var variants = []domain.ProductVariant{
	{ID: "ummon_40g", ProductName: "Ummon", SizeLabel: "40g", URL: "https://ippodotea.com/products/ummon-no-mukashi-40g", Strength: domain.StrengthRich},
	{ID: "ummon_20g", ProductName: "Ummon", SizeLabel: "20g", URL: "https://ippodotea.com/products/ummon-no-mukashi-20g", Strength: domain.StrengthRich},
	{ID: "sayaka_100g", ProductName: "Sayaka", SizeLabel: "100g", URL: "https://ippodotea.com/products/sayaka-no-mukashi-100g", Strength: domain.StrengthRich},
	{ID: "sayaka_40g", ProductName: "Sayaka", SizeLabel: "40g", URL: "https://ippodotea.com/products/sayaka-no-mukashi-40g", Strength: domain.StrengthRich},
	{ID: "horai_20g", ProductName: "Horai", SizeLabel: "20g", URL: "https://ippodotea.com/products/horai-no-mukashi-20g", Strength: domain.StrengthRich},
	{ID: "kan_30g", ProductName: "Kan", SizeLabel: "30g", URL: "https://ippodotea.com/products/kan-no-shiro-30g", Strength: domain.StrengthMedium},
	{ID: "ikuyo_100g", ProductName: "Ikuyo", SizeLabel: "100g", URL: "https://ippodotea.com/products/ikuyo-no-mukashi-100g", Strength: domain.StrengthMedium},
	{ID: "ikuyo_30g", ProductName: "Ikuyo", SizeLabel: "30g", URL: "https://ippodotea.com/products/ikuyo-no-mukashi-30g", Strength: domain.StrengthMedium},
	{ID: "wakaki_40g", ProductName: "Wakaki", SizeLabel: "40g", URL: "https://ippodotea.com/products/wakaki-shiro-40g", Strength: domain.StrengthLight},
}

type Catalog struct {
	ordered []domain.ProductVariant
	byID    map[string]domain.ProductVariant
}

// Load builds the catalog and validates it. A validation failure is a
// configuration error and is fatal at startup.
func Load() (Catalog, error) {
	c := Catalog{
		ordered: variants,
		byID:    make(map[string]domain.ProductVariant, len(variants)),
	}
	for _, v := range variants {
		c.byID[v.ID] = v
	}

	if res := Validate(variants); !res.IsValid() {
		return Catalog{}, res.Err()
	}
	return c, nil
}

// All returns the catalog in website order.
func (c Catalog) All() []domain.ProductVariant {
	out := make([]domain.ProductVariant, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c Catalog) Get(variantID string) (domain.ProductVariant, bool) {
	v, ok := c.byID[variantID]
	return v, ok
}

func (c Catalog) Contains(variantID string) bool {
	_, ok := c.byID[variantID]
	return ok
}

func (c Catalog) Len() int {
	return len(c.ordered)
}

// DefaultVariantIDs is the subscription set installed on registration.
func (c Catalog) DefaultVariantIDs() []string {
	return []string{DefaultVariantID}
}
