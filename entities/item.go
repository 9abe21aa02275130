package entities

// Item identity is per store: the same name under two stores is two rows.
type Item struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	StoreID  uint            `gorm:"uniqueIndex:uix_items_store_name;not null" json:"store_id"`
	Name     string          `gorm:"uniqueIndex:uix_items_store_name;not null" json:"name"`
	Category GroceryCategory `gorm:"default:other" json:"category"`
	Brand    *string         `json:"brand,omitempty"`

	Store        *Store         `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Transactions []*Transaction `gorm:"foreignKey:ItemID" json:"transactions,omitempty"`
	Timestamp
}
