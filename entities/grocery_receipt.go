package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type GroceryReceipt struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null" json:"user_id"`
	StoreID   *uint      `json:"store_id,omitempty"`
	DateTime  *time.Time `json:"date_time,omitempty"`
	ImageHash string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"image_hash"`

	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Store        *Store         `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Transactions []*Transaction `gorm:"foreignKey:ReceiptID" json:"transactions,omitempty"`
	Timestamp
}

// HashImage returns the SHA-256 hex digest of the raw image bytes. The digest
// is the receipt's dedup key: one row per distinct image byte sequence.
func HashImage(imageContent []byte) string {
	digest := sha256.Sum256(imageContent)
	return hex.EncodeToString(digest[:])
}

// NewGroceryReceipt builds a receipt row for the given image, hashing the
// bytes itself so callers cannot get the dedup key wrong.
func NewGroceryReceipt(imageContent []byte, userID uint, storeID *uint, dateTime *time.Time) *GroceryReceipt {
	return &GroceryReceipt{
		UserID:    userID,
		StoreID:   storeID,
		DateTime:  dateTime,
		ImageHash: HashImage(imageContent),
	}
}
