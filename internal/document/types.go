package document

import (
	"encoding/json"
	"fmt"
)

// Config is the typed configuration record shared between projects.
type Config struct {
	Database Database `json:"database" yaml:"database" toml:"database"`
}

// Database holds connection settings.
type Database struct {
	Host     string `json:"host" yaml:"host" toml:"host"`
	User     string `json:"user" yaml:"user" toml:"user"`
	Password string `json:"password" yaml:"password" toml:"password"`
}

// Default returns the record a new resource is initialized with.
func Default() Config {
	return Config{
		Database: Database{
			Host:     "default_host",
			User:     "admin",
			Password: "secret",
		},
	}
}

// Document is the generic form of a configuration file. Keys outside the
// typed record are kept across updates.
type Document map[string]any

// FromConfig converts a typed record to its generic form.
func FromConfig(c Config) Document {
	return Document{
		"database": map[string]any{
			"host":     c.Database.Host,
			"user":     c.Database.User,
			"password": c.Database.Password,
		},
	}
}

// ToConfig extracts the typed record from a document. Unknown keys are ignored.
func (d Document) ToConfig() (Config, error) {
	data, err := json.Marshal(map[string]any(d))
	if err != nil {
		return Config{}, fmt.Errorf("encoding document: %w", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("decoding config record: %w", err)
	}
	return c, nil
}
