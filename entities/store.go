package entities

// UnknownStoreName is recorded when a receipt names no readable store.
const UnknownStoreName = "unknown"

type Store struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"uniqueIndex;not null" json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`

	Receipts []*GroceryReceipt `gorm:"foreignKey:StoreID" json:"receipts,omitempty"`
	Items    []*Item           `gorm:"foreignKey:StoreID" json:"items,omitempty"`
	Timestamp
}
