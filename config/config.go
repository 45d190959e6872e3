package config

import (
	"github.com/go-pg/pg/v10"
)

type Config struct {
	Database pg.Options
	App      struct {
		Host string
		Port int
		// LogQueries logs every SQL statement at debug level.
		LogQueries bool
	}
	Uploads struct {
		Dir     string
		Prefix  string
		BaseURL string
	}
	Hotels struct {
		Path string
	}
}

// Defaults fills what the file left empty.
func (c *Config) Defaults() {
	if c.App.Port == 0 {
		c.App.Port = 3000
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "uploads"
	}
	if c.Uploads.Prefix == "" {
		c.Uploads.Prefix = "/uploads"
	}
	if c.Hotels.Path == "" {
		c.Hotels.Path = "configs/hotels.toml"
	}
}
