package initializers

import (
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// LoadEnv loads variables from a local .env file. A missing file is not an
// error: in deployed environments the variables come from the platform.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
		return
	}
	log.Println("Env loaded successfully")
}
