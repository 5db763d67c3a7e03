package database

import (
	"log"

	"github.com/karunavilla/booking-system/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Room{}, &models.Guest{}, &models.Booking{}, &models.Payment{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Exclusion constraint: no two confirmed bookings may hold the same
	// room over intersecting date ranges. This is the store-level backstop
	// behind the in-transaction overlap check; violations surface as
	// SQLSTATE 23P01 and are translated to a conflict error.
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`
		DO $$ BEGIN
			ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (
				room_id WITH =,
				tstzrange(check_in, check_out) WITH &&
			) WHERE (status = 'CONFIRMED');
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$
	`)

	return db
}
