package domain

type Strength string

const (
	StrengthRich   Strength = "rich"
	StrengthMedium Strength = "medium"
	StrengthLight  Strength = "light"
)

// ProductVariant is one product+size combination tracked independently.
// Variants are defined once by the catalog at startup and never mutated.
type ProductVariant struct {
	ID          string   `json:"id"`
	ProductName string   `json:"product_name"`
	SizeLabel   string   `json:"size_label"`
	URL         string   `json:"url"`
	Strength    Strength `json:"strength"`
}

func (v ProductVariant) DisplayName() string {
	if v.SizeLabel == "" {
		return v.ProductName
	}
	return v.ProductName + " " + v.SizeLabel
}
