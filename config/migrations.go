package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"hvacops-backend/models"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250101_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Customer{}, &models.Job{},
					&models.JobPhase{}, &models.Payment{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("payments", "job_phases", "jobs", "customers", "users")
			},
		},
		{
			ID: "20250115_create_inventory_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.InventoryItem{}, &models.StockMovement{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("stock_movements", "inventory_items")
			},
		},
		{
			ID: "20250201_create_notification_logs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.NotificationLog{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("notification_logs")
			},
		},
	})
	return m.Migrate()
}
