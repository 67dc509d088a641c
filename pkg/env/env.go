package env

import "os"

// Get reads an environment variable, falling back when it is unset or empty.
// Empty is treated as unset because the deploy tooling exports blank values
// for optional settings.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
