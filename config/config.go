// Package config loads and validates memsim configurations and builds the
// tiered memory they describe.
package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/sarchlab/memsim/address"
	"github.com/sarchlab/memsim/cache"
	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/store"
	"github.com/sarchlab/memsim/tiered"
)

// Config describes a two-level memory of 32-bit words.
type Config struct {
	// Organization is "direct" or "associative". Default: direct.
	Organization string `json:"organization"`

	// Geometry of the cache. Default: 512 Kib cache, 4-word lines,
	// 24-bit addresses.
	address.Geometry

	// StoreSize is the number of words in the backing store.
	// Default: 2^24, one word per address.
	StoreSize uint32 `json:"store_size"`

	// WritePolicy is "write-through", "write-invalidate", or
	// "write-update". Default: write-through.
	WritePolicy string `json:"write_policy"`

	// Seed feeds the replacement generator of associative caches.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() *Config {
	return &Config{
		Organization: address.Direct.String(),
		Geometry: address.Geometry{
			CacheSize:   524288,
			LineSize:    4,
			AddressSize: 24,
		},
		StoreSize:   1 << 24,
		WritePolicy: tiered.WriteThrough.String(),
		Seed:        1,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse memory config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize memory config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write memory config file: %w", err)
	}

	return nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	org, err := address.ParseOrganization(c.Organization)
	if err != nil {
		return err
	}

	if err := c.Geometry.Validate(org); err != nil {
		return err
	}

	if c.StoreSize == 0 {
		return fmt.Errorf("store_size must be > 0")
	}

	if uint64(c.StoreSize) > uint64(1)<<c.AddressSize {
		return fmt.Errorf("%w: store_size %d exceeds the %d-bit address space",
			mem.ErrInvalidGeometry, c.StoreSize, c.AddressSize)
	}

	if _, err := tiered.ParseWritePolicy(c.WritePolicy); err != nil {
		return err
	}

	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Build creates the tiered memory the Config describes, backed by an Akita
// storage.
func (c *Config) Build() (*tiered.Memory[uint32], error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid memory config: %w", err)
	}

	org, _ := address.ParseOrganization(c.Organization)
	policy, _ := tiered.ParseWritePolicy(c.WritePolicy)

	var (
		first cache.Cache[uint32]
		err   error
	)

	switch org {
	case address.Direct:
		first, err = cache.NewDirectMapped[uint32](c.Geometry)
	case address.Associative:
		first, err = cache.NewAssociative[uint32](
			c.Geometry, rand.New(rand.NewSource(c.Seed)))
	}

	if err != nil {
		return nil, err
	}

	return tiered.New[uint32](
		first,
		store.NewWordStorage(c.StoreSize),
		tiered.WithWritePolicy[uint32](policy),
	), nil
}
