package entities

// Transaction is one purchased line on a receipt. Rows are written once at
// ingestion time and never updated.
type Transaction struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ReceiptID uint     `gorm:"not null" json:"receipt_id"`
	ItemID    uint     `gorm:"not null" json:"item_id"`
	Quantity  float64  `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
	UnitType  UnitType `json:"unit_type"`

	Receipt *GroceryReceipt `gorm:"foreignKey:ReceiptID" json:"receipt,omitempty"`
	Item    *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Timestamp
}
