package db

import (
	"log"
	"time"

	"summitreg/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init opens the Postgres connection and migrates every table. Fatal on
// failure: the server is useless without its database.
func Init(dsn string) {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("connection to db failed: ", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("failed to get db from GORM: ", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	for _, m := range []any{
		&models.Category{},
		&models.Registrant{},
		&models.Exhibitor{},
		&models.Partner{},
		&models.EmailLog{},
	} {
		if err = DB.AutoMigrate(m); err != nil {
			log.Fatalf("automigration failed for %T: %v", m, err)
		}
	}
}
