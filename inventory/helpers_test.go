package inventory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const fixturePath = "testdata/environment_data.json"

func loadFixture(t *testing.T) *Snapshot {
	t.Helper()
	snap := Load(fixturePath)
	require.Len(t, snap.Subscriptions, 2, "fixture should decode")
	return snap
}

// scenarioSnapshot is one subscription with one vnet and one subnet bound to rt1 and nsg1.
func scenarioSnapshot() *Snapshot {
	return &Snapshot{
		Subscriptions: []Subscription{{ID: "sub1", DisplayName: "Subscription One"}},
		VNets: []VirtualNetwork{{
			ID:                "vnet1-id",
			Name:              "vnet1",
			Location:          "eastus",
			AddressSpace:      AddressSpace{AddressPrefixes: []string{"10.0.0.0/16"}},
			ResourceGroupName: "rg1",
			SubscriptionID:    "sub1",
		}},
		Subnets: []Subnet{{
			Name:                 "subnet1",
			AddressPrefix:        "10.0.1.0/24",
			VirtualNetworkName:   "vnet1",
			ResourceGroupName:    "rg1",
			SubscriptionID:       "sub1",
			RouteTable:           &Reference{ID: "rt1"},
			NetworkSecurityGroup: &Reference{ID: "nsg1"},
		}},
		RouteTables: []RouteTable{{
			ID:                         "rt1",
			Name:                       "rt1",
			ResourceGroupName:          "rg1",
			SubscriptionID:             "sub1",
			DisableBGPRoutePropagation: false,
		}},
		NSGs: []NetworkSecurityGroup{{
			ID:                "nsg1",
			Name:              "nsg1",
			ResourceGroupName: "rg1",
			SubscriptionID:    "sub1",
		}},
	}
}
