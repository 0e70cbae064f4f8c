package initializers

import (
	"fmt"
	"os"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB // shared handle, also used by Migrate

func ConnectDB() error {
	log.Println("Connecting to database")

	dsn := os.Getenv("DIRECT_URL")
	if dsn == "" {
		return fmt.Errorf("env variable DIRECT_URL is empty")
	}

	// PreferSimpleProtocol: the Supabase pooler does not support implicit
	// prepared statements.
	pgConfig := postgres.Config{
		PreferSimpleProtocol: true,
		DriverName:           "postgres",
		DSN:                  dsn,
	}

	var err error
	DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		PrepareStmt:          false,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	log.Println("Database connection successful")
	return nil
}
