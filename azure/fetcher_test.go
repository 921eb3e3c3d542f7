package azure

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/Azure/go-autorest/autorest"
	"github.com/netbeacon/azvnet/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	vnetA = "/subscriptions/sub-a/resourceGroups/rg-a/providers/Microsoft.Network/virtualNetworks/vnet-a"
	rtA   = "/subscriptions/sub-a/resourceGroups/rg-a/providers/Microsoft.Network/routeTables/rt-a"
	nsgA  = "/subscriptions/sub-a/resourceGroups/rg-a/providers/Microsoft.Network/networkSecurityGroups/nsg-a"
	nsgX  = "/subscriptions/sub-a/resourceGroups/rg-a/providers/Microsoft.Network/networkSecurityGroups/nsg-gone"
)

// fakeARM serves a canned Resource Manager for two subscriptions. sub-b fails to list its
// virtual networks.
type fakeARM struct {
	mu   sync.Mutex
	hits map[string]int
	url  string
}

func (f *fakeARM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.mu.Unlock()

	if r.URL.Query().Get("api-version") == "" {
		http.Error(w, `{"error":{"code":"MissingApiVersionParameter"}}`, http.StatusBadRequest)
		return
	}

	body, ok := map[string]string{
		"/subscriptions/sub-a/providers/Microsoft.Network/virtualNetworks": `{"value":[{"id":"` + vnetA + `","name":"vnet-a","location":"eastus",
			"properties":{"addressSpace":{"addressPrefixes":["10.1.0.0/16"]}}}]}`,
		vnetA + "/subnets": `{"value":[
			{"id":"` + vnetA + `/subnets/s1","name":"s1","properties":{"addressPrefix":"10.1.1.0/24","routeTable":{"id":"` + rtA + `"},"networkSecurityGroup":{"id":"` + nsgA + `"}}},
			{"id":"` + vnetA + `/subnets/s2","name":"s2","properties":{"addressPrefix":"10.1.2.0/24","routeTable":{"id":"` + rtA + `"},"networkSecurityGroup":{"id":"` + nsgX + `"}}},
			{"id":"` + vnetA + `/subnets/s3","name":"s3","properties":{}}]}`,
		vnetA + "/virtualNetworkPeerings": `{"value":[{"id":"` + vnetA + `/virtualNetworkPeerings/to-hub","name":"to-hub",
			"properties":{"allowVirtualNetworkAccess":true,"useRemoteGateways":true,"peeringState":"Connected","remoteVirtualNetwork":{"id":"/hub"}}}]}`,
		rtA: `{"id":"` + rtA + `","name":"rt-a","location":"eastus","properties":{"disableBgpRoutePropagation":true,
			"routes":[{"name":"default","properties":{"addressPrefix":"0.0.0.0/0","nextHopType":"VirtualAppliance","nextHopIpAddress":"10.0.0.4"}}]}}`,
		nsgA: `{"id":"` + nsgA + `","name":"nsg-a","location":"eastus"}`,
		"/subscriptions/sub-a/resourceGroups/rg-a/providers/Microsoft.Network/virtualNetworkGateways": `{"value":[
			{"id":"/subscriptions/sub-a/resourceGroups/rg-a/providers/Microsoft.Network/virtualNetworkGateways/gw","name":"gw","properties":{"gatewayType":"ExpressRoute"}}]}`,
		"/subscriptions/sub-a/resourcegroups": `{"value":[{"id":"/subscriptions/sub-a/resourceGroups/rg-a","name":"rg-a"}]}`,
		"/subscriptions/sub-a/resourceGroups/rg-a/providers/Microsoft.Network/expressRouteCircuits": `{"value":[
			{"id":"/subscriptions/sub-a/resourceGroups/rg-a/providers/Microsoft.Network/expressRouteCircuits/er","name":"er","location":"eastus"}]}`,
		"/subscriptions/sub-b/resourcegroups": `{"value":[]}`,
	}[r.URL.Path]

	if r.URL.Path == "/subscriptions" {
		ok = true
		if r.URL.Query().Get("page") == "2" {
			body = `{"value":[{"subscriptionId":"sub-b","displayName":"B"}]}`
		} else {
			body = `{"value":[{"subscriptionId":"sub-a","displayName":"A"}],"nextLink":"` + f.url + `/subscriptions?api-version=2020-01-01&page=2"}`
		}
	}
	if r.URL.Path == "/subscriptions/sub-b/providers/Microsoft.Network/virtualNetworks" {
		http.Error(w, `{"error":{"code":"InternalServerError","message":"boom"}}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":{"code":"ResourceNotFound","message":"not found"}}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func (f *fakeARM) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func newFakeARM(t *testing.T) (*fakeARM, *Fetcher) {
	t.Helper()
	fake := &fakeARM{hits: make(map[string]int)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	fake.url = srv.URL
	return fake, NewFetcherWithAuthorizer(Config{Endpoint: srv.URL}, autorest.NullAuthorizer{})
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	utils.SetLogOutput(&buf)
	t.Cleanup(func() { utils.SetLogOutput(os.Stderr) })
	return &buf
}

func TestFetch(t *testing.T) {
	logs := captureLog(t)
	fake, f := newFakeARM(t)

	snap, err := f.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Subscriptions, 2, "nextLink is followed")
	assert.Equal(t, "sub-a", snap.Subscriptions[0].ID)
	assert.Equal(t, "B", snap.Subscriptions[1].DisplayName)

	require.Len(t, snap.VNets, 1)
	assert.Equal(t, "rg-a", snap.VNets[0].ResourceGroupName)
	assert.Equal(t, []string{"10.1.0.0/16"}, snap.VNets[0].AddressSpace.AddressPrefixes)

	require.Len(t, snap.Subnets, 3)
	assert.Equal(t, "vnet-a", snap.Subnets[0].VirtualNetworkName)
	assert.Nil(t, snap.Subnets[2].RouteTable)
	assert.Nil(t, snap.Subnets[2].NetworkSecurityGroup)

	require.Len(t, snap.RouteTables, 1)
	assert.Equal(t, 1, fake.count(rtA), "shared route table fetched once")
	assert.True(t, snap.RouteTables[0].DisableBGPRoutePropagation)
	assert.Equal(t, "10.0.0.4", snap.RouteTables[0].Routes[0].NextHopIPAddress)

	require.Len(t, snap.NSGs, 1, "missing nsg is skipped")
	assert.Equal(t, "nsg-a", snap.NSGs[0].Name)

	require.Len(t, snap.Peerings, 1)
	assert.True(t, snap.Peerings[0].UseRemoteGateways)
	assert.Equal(t, "/hub", snap.Peerings[0].RemoteVirtualNetwork.ID)

	require.Len(t, snap.VNetGateways, 1)
	assert.Equal(t, "ExpressRoute", snap.VNetGateways[0].GatewayType)
	require.Len(t, snap.ExpressRouteCircuits, 1)
	assert.Equal(t, "rg-a", snap.ExpressRouteCircuits[0].ResourceGroupName)

	assert.Len(t, snap.Insights, 2)
	assert.Contains(t, logs.String(), "getting nsg")
	assert.Contains(t, logs.String(), "listing virtual networks")
}

func TestFetch_SubscriptionListFails(t *testing.T) {
	captureLog(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"AuthorizationFailed"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewFetcherWithAuthorizer(Config{Endpoint: srv.URL}, autorest.NullAuthorizer{})
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "listing subscriptions"))
}

func TestResourceGroup(t *testing.T) {
	assert.Equal(t, "rg-a", resourceGroup(vnetA))
	assert.Equal(t, "rg-a", resourceGroup(vnetA+"/subnets/s1"))
	assert.Equal(t, "", resourceGroup("not-an-id"))
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, "https://management.azure.com/", cfg.Endpoint)
	assert.Equal(t, defaultConcurrency, cfg.Concurrency)
	assert.True(t, strings.HasPrefix(cfg.UserAgent, "azvnet/"))
}

func TestNewFetcher_ServicePrincipal(t *testing.T) {
	assert.False(t, Config{TenantID: "t", ClientID: "c"}.servicePrincipal())

	f, err := NewFetcher(Config{TenantID: "tenant", ClientID: "client", ClientSecret: "secret", Concurrency: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, f.concurrency)
	assert.Equal(t, "https://management.azure.com/", f.endpoint)
}
