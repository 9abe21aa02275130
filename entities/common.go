package entities

import (
	"time"
)

type Timestamp struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UnitType string

const (
	UnitTypeOunce UnitType = "oz"
	UnitTypePound UnitType = "lb"
	UnitTypeEach  UnitType = "ea"
)

func (u UnitType) Valid() bool {
	switch u {
	case UnitTypeOunce, UnitTypePound, UnitTypeEach:
		return true
	}
	return false
}

type GroceryCategory string

const (
	CategoryProduce      GroceryCategory = "produce"
	CategoryDairy        GroceryCategory = "dairy"
	CategoryMeat         GroceryCategory = "meat"
	CategoryDessert      GroceryCategory = "dessert"
	CategoryBeverage     GroceryCategory = "beverage"
	CategorySnacks       GroceryCategory = "snacks"
	CategoryFrozen       GroceryCategory = "frozen"
	CategoryCanned       GroceryCategory = "canned"
	CategoryGrains       GroceryCategory = "grains"
	CategoryCondiments   GroceryCategory = "condiments"
	CategoryHousehold    GroceryCategory = "household"
	CategoryPersonalCare GroceryCategory = "personal_care"
	CategoryOther        GroceryCategory = "other"
)

func GroceryCategories() []GroceryCategory {
	return []GroceryCategory{
		CategoryProduce,
		CategoryDairy,
		CategoryMeat,
		CategoryDessert,
		CategoryBeverage,
		CategorySnacks,
		CategoryFrozen,
		CategoryCanned,
		CategoryGrains,
		CategoryCondiments,
		CategoryHousehold,
		CategoryPersonalCare,
		CategoryOther,
	}
}

func (c GroceryCategory) Valid() bool {
	for _, known := range GroceryCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Normalize maps any value outside the closed category set to "other",
// mirroring the schema-level default.
func (c GroceryCategory) Normalize() GroceryCategory {
	if c.Valid() {
		return c
	}
	return CategoryOther
}
