package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed networks.yaml
var networkSeedData []byte

type networkSeedFile struct {
	Networks []struct {
		ID   int    `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"networks"`
}

// SeedNetworkIDs returns the ids of the well-known networks shipped with
// the binary, used to populate the network catalog at startup.
func SeedNetworkIDs() ([]int, error) {
	var seed networkSeedFile
	if err := yaml.Unmarshal(networkSeedData, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse network seed: %w", err)
	}
	ids := make([]int, len(seed.Networks))
	for i, n := range seed.Networks {
		ids[i] = n.ID
	}
	return ids, nil
}

// NetworkCatalog is the cached popular-network list the search path
// filters client-side. It is populated at startup and refreshed by the
// scheduler; the engine only ever reads it.
type NetworkCatalog struct {
	mu      sync.RWMutex
	entries []ChannelEntity
}

// NewNetworkCatalog creates an empty catalog.
func NewNetworkCatalog() *NetworkCatalog {
	return &NetworkCatalog{}
}

// All returns a copy of the catalog entries.
func (c *NetworkCatalog) All() []ChannelEntity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ChannelEntity, len(c.entries))
	copy(out, c.entries)
	return out
}

// Replace swaps the catalog contents.
func (c *NetworkCatalog) Replace(entries []ChannelEntity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
}

// Len returns the number of cataloged networks.
func (c *NetworkCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Match returns the networks whose name contains the query,
// case-insensitively.
func (c *NetworkCatalog) Match(query string) []ChannelEntity {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []ChannelEntity
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Networks returns the current popular-network catalog.
func (s *Service) Networks() []ChannelEntity {
	return s.networks.All()
}

// RefreshNetworks repopulates the network catalog from the provider.
// Individual lookup failures are tolerated; entities without a logo are
// not cataloged.
func (s *Service) RefreshNetworks(ctx context.Context) error {
	ids, err := SeedNetworkIDs()
	if err != nil {
		return err
	}

	raw := make([]RawChannel, 0, len(ids))
	for _, id := range ids {
		network, err := s.provider.GetNetwork(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int("networkId", id).Msg("Network lookup failed, skipping")
			continue
		}
		raw = append(raw, network)
	}

	entities := filterLogoBearing(MergeChannels(raw, ChannelKindNetwork))
	s.networks.Replace(entities)

	s.logger.Info().
		Int("requested", len(ids)).
		Int("cataloged", len(entities)).
		Msg("Network catalog refreshed")
	return nil
}
