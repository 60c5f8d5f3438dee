package store

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the sqlite database and migrates the schema. The
// returned handle is passed explicitly into the stores; there is no
// package-level singleton.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", dbPath, err)
	}

	if err := db.AutoMigrate(&CatalogProduct{}, &StrainRecord{}); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	log.Printf("[STORE] Database ready at %s", dbPath)
	return db, nil
}

// CatalogProduct is one row of the internal product catalog, loaded by the
// spreadsheet import pipeline and read here as the matching snapshot.
type CatalogProduct struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"index;not null"`
	Vendor      string `gorm:"index"`
	Brand       string
	ProductType string
	Strain      string
	Lineage     string
	Weight      string
	Price       float64
}

// StrainRecord is one historical observation of a strain on a past
// manifest or label run. The fallback synthesizer aggregates these.
type StrainRecord struct {
	ID        uint   `gorm:"primaryKey"`
	StrainKey string `gorm:"index;not null"` // normalized strain name
	Strain    string `gorm:"not null"`
	Brand     string
	Vendor    string
	Weight    string
	Price     float64
	Lineage   string
}
