package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAllEmpty(t *testing.T, snap *Snapshot) {
	t.Helper()
	require.NotNil(t, snap)
	assert.Empty(t, snap.Subscriptions)
	assert.Empty(t, snap.VNets)
	assert.Empty(t, snap.Subnets)
	assert.Empty(t, snap.RouteTables)
	assert.Empty(t, snap.NSGs)
	assert.Empty(t, snap.Peerings)
	assert.Empty(t, snap.VNetGateways)
	assert.Empty(t, snap.ExpressRouteCircuits)
	assert.True(t, snap.IsEmpty())
}

func TestLoad_MissingFile(t *testing.T) {
	snap := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assertAllEmpty(t, snap)
}

func TestLoad_CorruptFileMatchesMissing(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "environment_data.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{\"subscriptions\": [[\"a\""), 0644))

	fromCorrupt := Load(corrupt)
	fromMissing := Load(filepath.Join(dir, "missing.json"))

	assertAllEmpty(t, fromCorrupt)
	assert.Equal(t, fromMissing, fromCorrupt)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assertAllEmpty(t, Load(path))
}

func TestLoad_NullAndEmptyObject(t *testing.T) {
	for _, doc := range []string{"null", "{}"} {
		snap, err := Decode([]byte(doc))
		require.NoError(t, err, doc)
		assertAllEmpty(t, snap)
	}
}

func TestLoad_Fixture(t *testing.T) {
	snap := loadFixture(t)

	assert.Equal(t, Subscription{ID: "sub-hub", DisplayName: "Hub Subscription"}, snap.Subscriptions[0])
	assert.Equal(t, []string{"10.1.0.0/16", "10.2.0.0/16"}, snap.VNets[1].AddressSpace.AddressPrefixes)

	db := snap.Subnets[2]
	assert.Equal(t, "db", db.Name)
	assert.Empty(t, db.AddressPrefix)
	assert.Nil(t, db.NetworkSecurityGroup)
	require.NotNil(t, db.RouteTable)

	assert.Len(t, snap.RouteTables, 2)
	assert.Empty(t, snap.RouteTables[0].Routes[1].NextHopIPAddress)
}

func TestDecode_SubscriptionMustBeArray(t *testing.T) {
	_, err := Decode([]byte(`{"subscriptions": [{"id": "x"}]}`))
	assert.Error(t, err)
}

func TestDecode_MissingBGPKeyMeansEnabled(t *testing.T) {
	snap, err := Decode([]byte(`{"route_tables": [{"id": "rt", "name": "rt", "subscription_id": "s"}]}`))
	require.NoError(t, err)
	assert.False(t, snap.RouteTables[0].DisableBGPRoutePropagation)
	assert.Empty(t, snap.RouteTables[0].Routes)
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environments", "environment_data.json")
	want := loadFixture(t)

	require.NoError(t, Write(path, want))
	got := Load(path)

	assert.Equal(t, want.Subscriptions, got.Subscriptions)
	assert.Equal(t, want.VNets, got.VNets)
	assert.Equal(t, want.Subnets, got.Subnets)
	assert.Equal(t, want.RouteTables, got.RouteTables)
	assert.Equal(t, want.Peerings, got.Peerings)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\"subscriptions\": [\n        [\n            \"sub-hub\",")
	assert.Contains(t, string(raw), "\"insights\": []")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be renamed away")
}

func TestWrite_EmptySnapshotCarriesEveryKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, Write(path, &Snapshot{}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{"subscriptions", "vnets", "subnets", "route_tables", "nsgs", "peerings", "vnet_gateways", "express_route_circuits", "insights"} {
		assert.Contains(t, string(raw), "\""+key+"\": []", key)
	}
}

func TestLookupSubscription(t *testing.T) {
	snap := loadFixture(t)

	sub, ok := snap.LookupSubscription("sub-spoke")
	require.True(t, ok)
	assert.Equal(t, "Spoke Subscription", sub.DisplayName)

	sub, ok = snap.LookupSubscription("hub subscription")
	require.True(t, ok)
	assert.Equal(t, "sub-hub", sub.ID)

	_, ok = snap.LookupSubscription("sub-missing")
	assert.False(t, ok)
}
