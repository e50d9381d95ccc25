// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by the CLI and MCP server, where config is addressed
// by dotted keys such as "ingest.max_depth".
//
// Pointers are used for optional fields so "not set" (nil) stays distinct
// from "explicitly set to zero/false"; defaults apply only to the former.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"author.name", "author.email",
		"ingest.max_depth", "ingest.skip_hidden",
		"watch.debounce",
		"history.time_format",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "author.name":
		return c.Author.Name, nil
	case "author.email":
		return c.Author.Email, nil
	case "ingest.max_depth":
		return strconv.Itoa(c.MaxDepth()), nil
	case "ingest.skip_hidden":
		return strconv.FormatBool(c.SkipHidden()), nil
	case "watch.debounce":
		return c.Debounce().String(), nil
	case "history.time_format":
		return c.TimeFormat(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
	case "author.email":
		c.Author.Email = value
	case "ingest.max_depth":
		n, err := strconv.Atoi(value)
		if err != nil || n < MinMaxDepth || n > MaxMaxDepth {
			return fmt.Errorf("%w: ingest.max_depth must be an integer between %d and %d", ErrInvalidValue, MinMaxDepth, MaxMaxDepth)
		}
		c.Ingest.MaxDepth = &n
	case "ingest.skip_hidden":
		v := strings.ToLower(value)
		if v != "true" && v != "false" {
			return fmt.Errorf("%w: ingest.skip_hidden must be true or false", ErrInvalidValue)
		}
		b := v == "true"
		c.Ingest.SkipHidden = &b
	case "watch.debounce":
		if _, err := parseDebounce(value); err != nil {
			return err
		}
		c.Watch.Debounce = value
	case "history.time_format":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: history.time_format must not be blank", ErrInvalidValue)
		}
		c.History.TimeFormat = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	m := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		m[k], _ = c.Get(k)
	}
	return m
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "author.email":
		return c.Author.Email != ""
	case "ingest.max_depth":
		return c.Ingest.MaxDepth != nil
	case "ingest.skip_hidden":
		return c.Ingest.SkipHidden != nil
	case "watch.debounce":
		return c.Watch.Debounce != ""
	case "history.time_format":
		return c.History.TimeFormat != ""
	default:
		return false
	}
}
