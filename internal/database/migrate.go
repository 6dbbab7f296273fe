package database

import (
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every settlement table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ProcessedEvent{},
		&models.SponsorshipPool{},
		&models.SeatClaim{},
		&models.SponsorCredit{},
		&models.Voucher{},
		&models.SettlementLedgerEntry{},
		&models.Transaction{},
		&models.RecipientAccount{},
	)
}
