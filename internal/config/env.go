package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadEnv loads KEY=value pairs from the given .env files (default ".env")
// into the process environment without overriding variables already set.
// Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
