package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cars-api-go/internal/models"
)

// carRecord is the gorm mapping of models.Car onto the cars table.
type carRecord struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Make  string `gorm:"size:255;not null;index:idx_cars_make"`
	Model string `gorm:"size:255;not null"`
	Year  int    `gorm:"not null"`
}

func (carRecord) TableName() string {
	return "cars"
}

func (r carRecord) toModel() models.Car {
	return models.Car{ID: r.ID, Make: r.Make, Model: r.Model, Year: r.Year}
}

// OpenGorm connects gorm to sqlite (dsn is a file path or "file::memory:")
// or postgres (dsn is a connection URL).
func OpenGorm(dialect, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dialect {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm dialect: %q", dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newZapGormLogger(logger),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if dialect == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite serializes writers; in-memory databases exist per connection
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository migrates the cars table and returns the repository.
func NewGormCarRepository(db *gorm.DB) (*GormCarRepository, error) {
	if err := db.AutoMigrate(&carRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cars table: %w", err)
	}
	return &GormCarRepository{db: db}, nil
}

func (r *GormCarRepository) All(ctx context.Context) ([]models.Car, error) {
	var records []carRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	cars := make([]models.Car, 0, len(records))
	for _, record := range records {
		cars = append(cars, record.toModel())
	}
	return cars, nil
}

func (r *GormCarRepository) ByID(ctx context.Context, id int64) (models.Car, bool, error) {
	var record carRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Car{}, false, nil
		}
		return models.Car{}, false, err
	}
	return record.toModel(), true, nil
}

// Save inserts car. On postgres a caller-supplied ID bypasses the id
// sequence, so the sequence is moved past it in the same transaction.
func (r *GormCarRepository) Save(ctx context.Context, car *models.Car) error {
	record := carRecord{ID: car.ID, Make: car.Make, Model: car.Model, Year: car.Year}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if car.ID == 0 || tx.Dialector.Name() != "postgres" {
			return nil
		}
		return tx.Exec(
			"SELECT setval(pg_get_serial_sequence('cars', 'id'), GREATEST((SELECT MAX(id) FROM cars), 1))",
		).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewDuplicateCarError(car.ID, "")
	}
	if err != nil {
		return err
	}

	car.ID = record.ID
	return nil
}
