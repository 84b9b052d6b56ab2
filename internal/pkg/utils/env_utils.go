package utils

import "os"

// GetEnv returns the value of an environment variable or fallback when it is unset.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
