package database

import (
	"log"

	"communityexpress-backend/internal/config"
	"communityexpress-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey so handlers can answer 409 instead of 500.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Could not connect to the database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Community{},
		&models.User{},
		&models.Vendor{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusChange{},
		&models.Payment{},
		// Laundry sub-domain
		&models.LaundryVendor{},
		&models.LaundryItem{},
		&models.LaundryOrder{},
		&models.LaundryOrderItem{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate error: %v", err)
	}

	log.Println("Database connection established. Migration complete.")
}
