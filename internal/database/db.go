package database

import (
	"fmt"

	"depo-backend/internal/logger"
	"depo-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open: Postgres bağlantısını açar ve depo tablolarını migrate eder
func Open(dsn string, log *logger.Logger) (*gorm.DB, error) {
	log = logger.OrNop(log).WithComponent("database")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
	return db, nil
}

// Migrate: tüm depo modellerini AutoMigrate eder
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.StockMovement{},
		&models.Transfer{},
		&models.TransferItem{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}
	return nil
}

// Close: alttaki sql.DB bağlantısını kapatır
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
