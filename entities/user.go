package entities

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`

	Receipts []*GroceryReceipt `gorm:"foreignKey:UserID" json:"receipts,omitempty"`
	Timestamp
}
