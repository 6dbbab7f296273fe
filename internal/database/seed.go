package database

import (
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedLocal loads a small set of pools, sponsor credits and recipients for
// local runs. Existing rows are left untouched.
func SeedLocal(db *gorm.DB) error {
	now := time.Now().UTC()

	pools := []models.SponsorshipPool{
		{ID: "pool_1", SponsorID: "sponsor_1", OfferingID: "offering_1", TotalSeats: 10, IsActive: true},
		{ID: "pool_2", SponsorID: "sponsor_2", OfferingID: "offering_2", TotalSeats: 3, IsActive: true},
	}
	for _, pool := range pools {
		if err := db.Where(models.SponsorshipPool{ID: pool.ID}).FirstOrCreate(&pool).Error; err != nil {
			return err
		}
	}

	credits := []models.SponsorCredit{
		{ID: "credit_1", SponsorID: "sponsor_1", TotalCredits: 100000},
		{ID: "credit_2", SponsorID: "sponsor_2", TotalCredits: 30000},
	}
	for _, credit := range credits {
		if err := db.Where(models.SponsorCredit{ID: credit.ID}).FirstOrCreate(&credit).Error; err != nil {
			return err
		}
	}

	recipients := []models.RecipientAccount{
		{ID: "recipient_1", PayoutsEnabled: true, EventAt: now},
		{ID: "recipient_2", PayoutsEnabled: false, EventAt: now},
	}
	for _, recipient := range recipients {
		if err := db.Where(models.RecipientAccount{ID: recipient.ID}).FirstOrCreate(&recipient).Error; err != nil {
			return err
		}
	}

	logrus.Info("Settlement seed data loaded")
	return nil
}
