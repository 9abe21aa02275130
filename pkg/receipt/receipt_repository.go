package receipt

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"Grocery-Receipt-Tracker/domain"
	"Grocery-Receipt-Tracker/entities"
	"Grocery-Receipt-Tracker/pkg/scanning"
)

type (
	ReceiptRepository interface {
		ExistsByImageHash(ctx context.Context, imageHash string) (bool, error)
		IngestReceipt(ctx context.Context, imageContent []byte, parsed *scanning.ParsedReceipt) (*entities.GroceryReceipt, error)
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
		GetReceipts(ctx context.Context, userID uint, page, limit int) ([]*entities.GroceryReceipt, int64, error)
		GetReceiptByID(ctx context.Context, id uint) (*entities.GroceryReceipt, error)
	}

	receiptRepository struct {
		db *gorm.DB
	}
)

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

// ExistsByImageHash is the advisory dedup pre-check. The unique index on
// image_hash remains the authoritative guard at write time.
func (r *receiptRepository) ExistsByImageHash(ctx context.Context, imageHash string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.GroceryReceipt{}).
		Where("image_hash = ?", imageHash).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IngestReceipt writes everything a parsed receipt needs — user, store, items,
// the receipt row and one transaction per purchase line — inside a single
// database transaction. On any failure nothing is committed.
func (r *receiptRepository) IngestReceipt(ctx context.Context, imageContent []byte, parsed *scanning.ParsedReceipt) (*entities.GroceryReceipt, error) {
	var receipt *entities.GroceryReceipt

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := getOrCreateUser(tx, parsed.User.Username)
		if err != nil {
			return err
		}

		var store *entities.Store
		var storeID *uint
		if parsed.Store != nil {
			name := strings.TrimSpace(parsed.Store.Name)
			if name == "" {
				name = entities.UnknownStoreName
			}
			store, err = getOrCreateStore(tx, name, parsed.Store.Address, parsed.Store.Phone)
			if err != nil {
				return err
			}
			storeID = &store.ID
		}

		receipt = entities.NewGroceryReceipt(imageContent, user.ID, storeID, parsed.DateTime)
		if err := tx.Create(receipt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a concurrent race on the image hash: the receipt is
				// already ingested, not a fatal failure.
				return domain.ErrDuplicateReceipt
			}
			return err
		}

		// Transactions are created in payload order so insertion order
		// reproduces the printed receipt.
		for _, purchase := range parsed.Purchases {
			itemStore := store
			if itemStore == nil {
				// Items always belong to a store. A store-less receipt keeps
				// its own store reference NULL but files items under the
				// sentinel store.
				itemStore, err = getOrCreateStore(tx, entities.UnknownStoreName, nil, nil)
				if err != nil {
					return err
				}
			}
			if _, err := createTransactionFromPurchase(tx, purchase, receipt.ID, itemStore.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// getOrCreateUser resolves a user row by username, inserting one when absent.
// The insert runs in a savepoint so a lost unique-index race can be recovered
// by re-reading the winner's row without aborting the outer transaction.
func getOrCreateUser(tx *gorm.DB, username string) (*entities.User, error) {
	var user entities.User
	err := tx.Where("username = ?", username).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = entities.User{Username: username}
	err = tx.Transaction(func(stx *gorm.DB) error {
		return stx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing entities.User
			if err := tx.Where("username = ?", username).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &user, nil
}

// getOrCreateStore resolves a store by name. On a hit the stored address and
// phone win; later conflicting values are ignored, not reconciled.
func getOrCreateStore(tx *gorm.DB, name string, address, phone *string) (*entities.Store, error) {
	var store entities.Store
	err := tx.Where("name = ?", name).First(&store).Error
	if err == nil {
		return &store, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	store = entities.Store{Name: name, Address: address, Phone: phone}
	err = tx.Transaction(func(stx *gorm.DB) error {
		return stx.Create(&store).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing entities.Store
			if err := tx.Where("name = ?", name).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &store, nil
}

// getOrCreateItem resolves an item by its (store, name) identity. Category and
// brand are fixed at first sight and ignored on later hits.
func getOrCreateItem(tx *gorm.DB, storeID uint, name string, category entities.GroceryCategory, brand *string) (*entities.Item, error) {
	var item entities.Item
	err := tx.Where("store_id = ? AND name = ?", storeID, name).First(&item).Error
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item = entities.Item{
		StoreID:  storeID,
		Name:     name,
		Category: category.Normalize(),
		Brand:    brand,
	}
	err = tx.Transaction(func(stx *gorm.DB) error {
		return stx.Create(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing entities.Item
			if err := tx.Where("store_id = ? AND name = ?", storeID, name).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &item, nil
}

// createTransactionFromPurchase resolves the purchased item and writes the
// transaction line. Quantity, unit price and unit type are passthrough fields.
func createTransactionFromPurchase(tx *gorm.DB, purchase scanning.ParsedPurchase, receiptID uint, storeID uint) (*entities.Transaction, error) {
	item, err := getOrCreateItem(tx, storeID, purchase.Name, purchase.Category, purchase.Brand)
	if err != nil {
		return nil, err
	}

	transaction := &entities.Transaction{
		ReceiptID: receiptID,
		ItemID:    item.ID,
		Quantity:  purchase.Quantity,
		UnitPrice: purchase.UnitPrice,
		UnitType:  purchase.UnitType,
	}
	if err := tx.Create(transaction).Error; err != nil {
		return nil, err
	}
	return transaction, nil
}

func (r *receiptRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *receiptRepository) GetReceipts(ctx context.Context, userID uint, page, limit int) ([]*entities.GroceryReceipt, int64, error) {
	var receipts []*entities.GroceryReceipt
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if err := query.Model(&entities.GroceryReceipt{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Store").
		Preload("Transactions").
		Offset(offset).Limit(limit).
		Order("id desc").
		Find(&receipts).Error; err != nil {
		return nil, 0, err
	}

	return receipts, count, nil
}

func (r *receiptRepository) GetReceiptByID(ctx context.Context, id uint) (*entities.GroceryReceipt, error) {
	var receipt entities.GroceryReceipt
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Store").
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("transactions.id asc")
		}).
		Preload("Transactions.Item").
		Where("id = ?", id).
		First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}
