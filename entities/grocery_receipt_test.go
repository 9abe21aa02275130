package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashImage(t *testing.T) {
	digest := HashImage([]byte("receipt-1"))
	assert.Len(t, digest, 64)

	// deterministic
	assert.Equal(t, digest, HashImage([]byte("receipt-1")))

	// any difference in bytes changes the digest
	assert.NotEqual(t, digest, HashImage([]byte("receipt-2")))
	assert.NotEqual(t, digest, HashImage([]byte{}))
}

func TestNewGroceryReceipt(t *testing.T) {
	image := []byte("receipt-1")
	storeID := uint(7)
	dateTime := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	receipt := NewGroceryReceipt(image, 3, &storeID, &dateTime)
	assert.Equal(t, uint(3), receipt.UserID)
	require.NotNil(t, receipt.StoreID)
	assert.Equal(t, uint(7), *receipt.StoreID)
	assert.Equal(t, HashImage(image), receipt.ImageHash)
	assert.Equal(t, &dateTime, receipt.DateTime)

	withoutStore := NewGroceryReceipt(image, 3, nil, nil)
	assert.Nil(t, withoutStore.StoreID)
	assert.Nil(t, withoutStore.DateTime)
}

func TestUnitTypeValid(t *testing.T) {
	assert.True(t, UnitTypeEach.Valid())
	assert.True(t, UnitTypePound.Valid())
	assert.True(t, UnitTypeOunce.Valid())
	assert.False(t, UnitType("kg").Valid())
	assert.False(t, UnitType("").Valid())
}

func TestGroceryCategoryNormalize(t *testing.T) {
	assert.Equal(t, CategoryDairy, CategoryDairy.Normalize())
	assert.Equal(t, CategoryOther, GroceryCategory("bakery").Normalize())
	assert.Equal(t, CategoryOther, GroceryCategory("").Normalize())
}
