// Package config provides configuration loading and management for the
// chebiprep pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/chebiprep/split"
)

// Config represents the complete chebiprep configuration
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Split   SplitConfig   `yaml:"split"`
	Output  OutputConfig  `yaml:"output"`
}

// DatasetConfig configures label selection and propagation
type DatasetConfig struct {
	// MinMolecules is the minimum number of molecules an ontology class
	// must cover, directly or transitively, to be kept as a label
	MinMolecules int `yaml:"min_molecules"`
	// Workers is the number of goroutines used for label-row construction
	Workers int `yaml:"workers"`
}

// SplitConfig configures the train/validation/test partitioning
type SplitConfig struct {
	// TrainRatio is the fraction of rows for training (default 0.8)
	TrainRatio float64 `yaml:"train_ratio"`
	// ValRatio is the fraction of rows for validation (default 0.1)
	ValRatio float64 `yaml:"val_ratio"`
	// TestRatio is the fraction of rows for testing (default 0.1)
	TestRatio float64 `yaml:"test_ratio"`
	// Seed drives every randomized operation for reproducible splits
	Seed int64 `yaml:"seed"`
}

// Ratios converts the configured fractions to a split.Ratios value.
func (s SplitConfig) Ratios() split.Ratios {
	return split.Ratios{Train: s.TrainRatio, Val: s.ValRatio, Test: s.TestRatio}
}

// OutputConfig configures where and how results are written
type OutputConfig struct {
	// Dir is the directory receiving the split tables and manifest
	Dir string `yaml:"dir"`
	// Format is the table serialization format ("csv" or "jsonl")
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			MinMolecules: 50,
			Workers:      1,
		},
		Split: SplitConfig{
			TrainRatio: 0.8,
			ValRatio:   0.1,
			TestRatio:  0.1,
			Seed:       42,
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: "csv",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Dataset.MinMolecules < 1 {
		return fmt.Errorf("dataset.min_molecules must be positive, got %d", c.Dataset.MinMolecules)
	}
	if c.Dataset.Workers < 1 {
		return fmt.Errorf("dataset.workers must be positive, got %d", c.Dataset.Workers)
	}
	if err := c.Split.Ratios().Validate(); err != nil {
		return fmt.Errorf("split: %w", err)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Output.Format != "csv" && c.Output.Format != "jsonl" {
		return fmt.Errorf("output.format must be csv or jsonl, got %q", c.Output.Format)
	}
	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Dataset
	if other.Dataset.MinMolecules != 0 {
		c.Dataset.MinMolecules = other.Dataset.MinMolecules
	}
	if other.Dataset.Workers != 0 {
		c.Dataset.Workers = other.Dataset.Workers
	}

	// Split: ratios merge as a triple, since merging them one by one
	// would break the sum-to-one constraint
	if other.Split.TrainRatio != 0 || other.Split.ValRatio != 0 || other.Split.TestRatio != 0 {
		c.Split.TrainRatio = other.Split.TrainRatio
		c.Split.ValRatio = other.Split.ValRatio
		c.Split.TestRatio = other.Split.TestRatio
	}
	if other.Split.Seed != 0 {
		c.Split.Seed = other.Split.Seed
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
