package inventory

import (
	"bytes"
	"testing"

	"github.com/netbeacon/azvnet/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	out := utils.Logger.Out
	utils.SetLogOutput(&buf)
	t.Cleanup(func() { utils.SetLogOutput(out) })
	return &buf
}

func TestResolveRouteTable_Found(t *testing.T) {
	snap := scenarioSnapshot()
	rt, ok := ResolveRouteTable(snap, snap.Subnets[0], "sub1")
	require.True(t, ok)
	assert.Equal(t, "rt1", rt.Name)
}

func TestResolveRouteTable_SubscriptionMismatchIsNotFound(t *testing.T) {
	snap := scenarioSnapshot()
	logs := captureLog(t)

	_, ok := ResolveRouteTable(snap, snap.Subnets[0], "sub2")
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "route table not found")
	assert.Contains(t, logs.String(), "route_table_id=rt1")
}

func TestResolveRouteTable_NoReferenceDoesNotLog(t *testing.T) {
	snap := scenarioSnapshot()
	logs := captureLog(t)

	subnet := snap.Subnets[0]
	subnet.RouteTable = nil
	_, ok := ResolveRouteTable(snap, subnet, "sub1")
	assert.False(t, ok)
	assert.Empty(t, logs.String())
}

func TestResolveRouteTable_FirstMatchWins(t *testing.T) {
	snap := scenarioSnapshot()
	snap.RouteTables = append(snap.RouteTables,
		RouteTable{ID: "rt1", Name: "duplicate", SubscriptionID: "sub1"},
		RouteTable{ID: "rt1", Name: "other-sub", SubscriptionID: "sub2"},
	)

	rt, ok := ResolveRouteTable(snap, snap.Subnets[0], "sub1")
	require.True(t, ok)
	assert.Equal(t, "rt1", rt.Name)

	rt, ok = ResolveRouteTable(snap, snap.Subnets[0], "sub2")
	require.True(t, ok)
	assert.Equal(t, "other-sub", rt.Name)
}

func TestResolveNSG(t *testing.T) {
	snap := scenarioSnapshot()
	logs := captureLog(t)

	nsg, ok := ResolveNSG(snap, snap.Subnets[0], "sub1")
	require.True(t, ok)
	assert.Equal(t, "nsg1", nsg.Name)

	missing := snap.Subnets[0]
	missing.NetworkSecurityGroup = &Reference{ID: "nsg-deleted"}
	_, ok = ResolveNSG(snap, missing, "sub1")
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "nsg_id=nsg-deleted")
}

func TestResolve_EmptySnapshot(t *testing.T) {
	snap := Empty()
	captureLog(t)
	subnet := Subnet{Name: "s", RouteTable: &Reference{ID: "rt"}, NetworkSecurityGroup: &Reference{ID: "nsg"}}

	_, ok := ResolveRouteTable(snap, subnet, "sub")
	assert.False(t, ok)
	_, ok = ResolveNSG(snap, subnet, "sub")
	assert.False(t, ok)
}
