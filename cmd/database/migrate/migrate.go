package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"Grocery-Receipt-Tracker/entities"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Store{}); err != nil {
		log.Fatalf("Error migrating store database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Item{}); err != nil {
		log.Fatalf("Error migrating item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.GroceryReceipt{}); err != nil {
		log.Fatalf("Error migrating grocery receipt database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Transaction{}); err != nil {
		log.Fatalf("Error migrating transaction database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
