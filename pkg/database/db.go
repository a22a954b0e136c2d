package database

import (
	"fmt"
	"log"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB   *gorm.DB
	once sync.Once
)

// Options describe the postgres connection.
type Options struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (o Options) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		valueOrDefault(o.Host, "localhost"),
		valueOrDefault(o.User, "postgres"),
		o.Password,
		valueOrDefault(o.Name, "folio"),
		valueOrDefault(o.Port, "5432"),
		valueOrDefault(o.SSLMode, "disable"),
	)
}

func Connect(opts Options) *gorm.DB {
	once.Do(func() {
		db, err := gorm.Open(postgres.Open(opts.DSN()), &gorm.Config{
			TranslateError: true,
		})
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}

		DB = db
	})

	return DB
}

// Migrate creates or updates the tables of models.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func valueOrDefault(val, fallback string) string {
	if val != "" {
		return val
	}

	return fallback
}
