package enums

import "fmt"

// ProductCategory represents the canonical catalog categories.
type ProductCategory string

const (
	ProductCategoryCutFruit  ProductCategory = "cut_fruit"
	ProductCategoryFruitBowl ProductCategory = "fruit_bowl"
	ProductCategoryJuice     ProductCategory = "juice"
	ProductCategorySmoothie  ProductCategory = "smoothie"
	ProductCategoryGiftBox   ProductCategory = "gift_box"
	ProductCategorySeasonal  ProductCategory = "seasonal"
)

var validProductCategories = []ProductCategory{
	ProductCategoryCutFruit,
	ProductCategoryFruitBowl,
	ProductCategoryJuice,
	ProductCategorySmoothie,
	ProductCategoryGiftBox,
	ProductCategorySeasonal,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
