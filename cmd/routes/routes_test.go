package routes

import (
	"testing"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesOneCSVRowPerRoute(t *testing.T) {
	rows := []inventory.SubnetRoute{
		{
			VNetName: "vnet-app", VNetPrefixes: "10.1.0.0/16", SubnetName: "web", SubnetPrefix: "10.1.0.0/24",
			RouteTableName: "rt-app", BGPPropagation: inventory.BGPEnabled, NSGName: "nsg-web",
			Routes: []inventory.Route{
				{Name: "default", AddressPrefix: "0.0.0.0/0", NextHopType: "VirtualAppliance", NextHopIPAddress: "10.0.0.4"},
				{Name: "local", AddressPrefix: "10.1.0.0/16", NextHopType: "VnetLocal"},
			},
		},
		{
			VNetName: "vnet-app", VNetPrefixes: "10.1.0.0/16", SubnetName: "db", SubnetPrefix: inventory.NAValue,
			RouteTableName: inventory.NoneValue, BGPPropagation: inventory.BGPUnknown, NSGName: inventory.NoneValue,
		},
	}

	csvData, stdOutData := tables(rows)

	require.Len(t, csvData, 4)
	assert.Equal(t, []string{"vnet-app", "10.1.0.0/16", "web", "10.1.0.0/24", "rt-app", "Enabled", "nsg-web", "default", "0.0.0.0/0", "VirtualAppliance", "10.0.0.4"}, csvData[1])
	assert.Equal(t, "N/A", csvData[2][10])
	assert.Equal(t, "", csvData[3][7])
	assert.Equal(t, "None", csvData[3][4])

	require.Len(t, stdOutData, 3)
	assert.Equal(t, "default  0.0.0.0/0  VirtualAppliance  10.0.0.4\nlocal  10.1.0.0/16  VnetLocal  N/A", stdOutData[1][6])
	assert.Equal(t, "No routes", stdOutData[2][6])
}
