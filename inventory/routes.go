package inventory

import "strings"

// Placeholders rendered when a reference is absent or cannot be resolved.
const (
	NoneValue    = "None"
	UnknownValue = "Unknown"
	NAValue      = "N/A"
)

// BGP propagation states shown per subnet.
const (
	BGPEnabled  = "Enabled"
	BGPDisabled = "Disabled"
	BGPUnknown  = UnknownValue
)

// SubnetRoute is one row of the subnet route view.
type SubnetRoute struct {
	VNetName       string  `json:"vnet_name"`
	VNetPrefixes   string  `json:"vnet_prefixes"`
	SubnetName     string  `json:"subnet_name"`
	SubnetPrefix   string  `json:"subnet_prefix"`
	RouteTableName string  `json:"route_table_name"`
	BGPPropagation string  `json:"bgp_propagation"`
	Routes         []Route `json:"routes"`
	NSGName        string  `json:"nsg_name"`
}

// SubnetRoutes joins every subnet of the subscription with its route table and NSG. Rows follow
// snapshot order: virtual networks first, then each network's subnets.
func SubnetRoutes(snap *Snapshot, subscriptionID string) []SubnetRoute {
	var rows []SubnetRoute
	for _, vnet := range snap.VNetsIn(subscriptionID) {
		prefixes := strings.Join(vnet.AddressSpace.AddressPrefixes, ", ")
		for _, subnet := range snap.SubnetsOf(vnet) {
			row := SubnetRoute{
				VNetName:       vnet.Name,
				VNetPrefixes:   prefixes,
				SubnetName:     subnet.Name,
				SubnetPrefix:   subnet.AddressPrefix,
				RouteTableName: NoneValue,
				BGPPropagation: BGPUnknown,
				NSGName:        NoneValue,
			}
			if row.SubnetPrefix == "" {
				row.SubnetPrefix = NAValue
			}
			if rt, ok := ResolveRouteTable(snap, subnet, subscriptionID); ok {
				row.RouteTableName = rt.Name
				row.BGPPropagation = BGPEnabled
				if rt.DisableBGPRoutePropagation {
					row.BGPPropagation = BGPDisabled
				}
				row.Routes = rt.Routes
			}
			if nsg, ok := ResolveNSG(snap, subnet, subscriptionID); ok {
				row.NSGName = nsg.Name
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// NextHopIP renders a route's next hop address with the N/A placeholder.
func (r Route) NextHopIP() string {
	if r.NextHopIPAddress == "" {
		return NAValue
	}
	return r.NextHopIPAddress
}
