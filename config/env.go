// file: phfwd/config/env.go
package config

import (
	"os"
	"strconv"
	"strings"
)

// GetEnvStr returns string env var or fallback.
func GetEnvStr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetEnvInt returns int env var or fallback.
func GetEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

// GetEnvBool returns bool env var or fallback.
func GetEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}

// ReplaceEnvVars replaces ${ENV_VAR} in raw JSON with values from os.Getenv.
func ReplaceEnvVars(data []byte) []byte {
	return []byte(os.Expand(string(data), os.Getenv))
}
