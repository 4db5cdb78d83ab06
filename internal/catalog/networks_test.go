package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedNetworkIDs(t *testing.T) {
	ids, err := SeedNetworkIDs()
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	assert.Contains(t, ids, 213, "Netflix is seeded")
	assert.Contains(t, ids, 49, "HBO is seeded")
}

func TestRefreshNetworks_ToleratesLookupFailures(t *testing.T) {
	ids, err := SeedNetworkIDs()
	require.NoError(t, err)
	require.Greater(t, len(ids), 2)

	failID := ids[0]
	logolessID := ids[1]

	provider := &fakeProvider{
		getNetwork: func(_ context.Context, id int) (RawChannel, error) {
			switch id {
			case failID:
				return RawChannel{}, errors.New("upstream unavailable")
			case logolessID:
				return RawChannel{ID: id, Name: fmt.Sprintf("Network %d", id)}, nil
			default:
				return RawChannel{ID: id, Name: fmt.Sprintf("Network %d", id), LogoPath: "/logo.png"}, nil
			}
		},
	}

	svc := newTestService(provider)
	require.NoError(t, svc.RefreshNetworks(context.Background()))

	entities := svc.Networks()
	assert.Len(t, entities, len(ids)-2, "failed lookup and logo-less entry are skipped")
	for _, e := range entities {
		assert.False(t, e.HasSourceID(failID))
		assert.False(t, e.HasSourceID(logolessID))
		assert.NotEmpty(t, e.LogoPath)
		assert.Equal(t, ChannelKindNetwork, e.Kind)
	}
}

func TestRefreshNetworks_AllLookupsFailing(t *testing.T) {
	calls := 0
	provider := &fakeProvider{
		getNetwork: func(_ context.Context, _ int) (RawChannel, error) {
			calls++
			return RawChannel{}, errors.New("upstream unavailable")
		},
	}

	svc := newTestService(provider)
	require.NoError(t, svc.RefreshNetworks(context.Background()),
		"per-id failures never fail the refresh")
	assert.NotZero(t, calls)
	assert.Empty(t, svc.Networks())
}

func TestNetworkCatalogMatch(t *testing.T) {
	catalog := NewNetworkCatalog()
	catalog.Replace([]ChannelEntity{
		{ID: "49", Name: "HBO", Kind: ChannelKindNetwork, NetworkID: "49"},
		{ID: "3186", Name: "HBO Max", Kind: ChannelKindNetwork, NetworkID: "3186"},
		{ID: "213", Name: "Netflix", Kind: ChannelKindNetwork, NetworkID: "213"},
	})

	assert.Len(t, catalog.Match("hbo"), 2)
	assert.Len(t, catalog.Match("NETFLIX"), 1)
	assert.Empty(t, catalog.Match("  "), "blank query matches nothing")
}
