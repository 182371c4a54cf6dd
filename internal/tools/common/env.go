package common

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads the given env file when it exists. Variables already
// present in the environment win over file values. A missing file is
// not an error so the tools work both with and without a local .env.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}
