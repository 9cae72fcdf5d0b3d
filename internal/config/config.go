// Package config provides configuration loading for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pairspend/pairspend/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config is the application configuration resolved from file, environment,
// and defaults.
type Config struct {
	DatabasePath string
	LogLevel     string
	LogFormat    string
	Categories   []model.Category
}

// rawCategory is the on-disk shape of a category definition.
type rawCategory struct {
	Key         string   `mapstructure:"key"`
	Description string   `mapstructure:"description"`
	Keywords    []string `mapstructure:"keywords"`
	MinAmount   string   `mapstructure:"min_amount"`
	MaxAmount   string   `mapstructure:"max_amount"`
}

// Load reads configuration via viper. Categories fall back to the built-in
// set when the file defines none; declaration order is preserved because the
// keyword scorer breaks ties on it.
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath: ExpandPath(viper.GetString("database.path")),
		LogLevel:     viper.GetString("logging.level"),
		LogFormat:    viper.GetString("logging.format"),
	}

	if cfg.DatabasePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.DatabasePath = filepath.Join(home, ".local", "share", "pairspend", "pairspend.db")
	}

	var raw []rawCategory
	if err := viper.UnmarshalKey("categories", &raw); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}

	if len(raw) == 0 {
		cfg.Categories = DefaultCategories()
		return cfg, nil
	}

	for _, rc := range raw {
		category, err := rc.toModel()
		if err != nil {
			return nil, err
		}
		cfg.Categories = append(cfg.Categories, category)
	}

	return cfg, nil
}

func (rc rawCategory) toModel() (model.Category, error) {
	if strings.TrimSpace(rc.Key) == "" {
		return model.Category{}, fmt.Errorf("category with empty key")
	}

	category := model.Category{
		Key:         rc.Key,
		Description: rc.Description,
		Keywords:    rc.Keywords,
	}

	if rc.MinAmount != "" {
		amount, err := decimal.NewFromString(rc.MinAmount)
		if err != nil {
			return model.Category{}, fmt.Errorf("category %s: invalid min_amount %q: %w", rc.Key, rc.MinAmount, err)
		}
		category.MinAmount = &amount
	}
	if rc.MaxAmount != "" {
		amount, err := decimal.NewFromString(rc.MaxAmount)
		if err != nil {
			return model.Category{}, fmt.Errorf("category %s: invalid max_amount %q: %w", rc.Key, rc.MaxAmount, err)
		}
		category.MaxAmount = &amount
	}

	return category, nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
