package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/campushub/campus-events-api/internal/config"
)

func OpenPostgres(conf *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%v user=%v password=%v dbname=%v port=%v sslmode=%v",
		conf.Host, conf.User, conf.Password, conf.Name, conf.Port, conf.SSLMode,
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// OpenPostgresWithURL connects using a full DATABASE_URL, the form most
// hosting platforms inject.
func OpenPostgresWithURL(url string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(url), &gorm.Config{})
}
