// Package env reads the few process variables that sit outside the
// STOREFRONT_ envconfig prefix, like LOG_FORMAT.
package env

import "os"

// Get returns the named variable's value, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
