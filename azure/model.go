package azure

import "github.com/netbeacon/azvnet/inventory"

// ARM payloads carry the interesting fields under "properties"; these types mirror just enough of
// them to fill the snapshot.

type armSubscription struct {
	SubscriptionID string `json:"subscriptionId"`
	DisplayName    string `json:"displayName"`
}

type armRef struct {
	ID string `json:"id"`
}

func (r *armRef) toInventory() *inventory.Reference {
	if r == nil || r.ID == "" {
		return nil
	}
	return &inventory.Reference{ID: r.ID}
}

type armResource struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (r armResource) toNSG(subID string) inventory.NetworkSecurityGroup {
	return inventory.NetworkSecurityGroup{
		ID:                r.ID,
		Name:              r.Name,
		Location:          r.Location,
		ResourceGroupName: resourceGroup(r.ID),
		SubscriptionID:    subID,
	}
}

func (r armResource) toCircuit(subID, rg string) inventory.ExpressRouteCircuit {
	return inventory.ExpressRouteCircuit{
		ID:                r.ID,
		Name:              r.Name,
		Location:          r.Location,
		ResourceGroupName: rg,
		SubscriptionID:    subID,
	}
}

type armVirtualNetwork struct {
	armResource
	Properties struct {
		AddressSpace struct {
			AddressPrefixes []string `json:"addressPrefixes"`
		} `json:"addressSpace"`
	} `json:"properties"`
}

func (v armVirtualNetwork) toInventory(subID, rg string) inventory.VirtualNetwork {
	prefixes := v.Properties.AddressSpace.AddressPrefixes
	if prefixes == nil {
		prefixes = []string{}
	}
	return inventory.VirtualNetwork{
		ID:                v.ID,
		Name:              v.Name,
		Location:          v.Location,
		AddressSpace:      inventory.AddressSpace{AddressPrefixes: prefixes},
		ResourceGroupName: rg,
		SubscriptionID:    subID,
	}
}

type armSubnet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties struct {
		AddressPrefix        string  `json:"addressPrefix"`
		RouteTable           *armRef `json:"routeTable"`
		NetworkSecurityGroup *armRef `json:"networkSecurityGroup"`
	} `json:"properties"`
}

func (s armSubnet) toInventory(subID, rg, vnet string) inventory.Subnet {
	return inventory.Subnet{
		ID:                   s.ID,
		Name:                 s.Name,
		AddressPrefix:        s.Properties.AddressPrefix,
		VirtualNetworkName:   vnet,
		ResourceGroupName:    rg,
		SubscriptionID:       subID,
		RouteTable:           s.Properties.RouteTable.toInventory(),
		NetworkSecurityGroup: s.Properties.NetworkSecurityGroup.toInventory(),
	}
}

type armRoute struct {
	Name       string `json:"name"`
	Properties struct {
		AddressPrefix    string `json:"addressPrefix"`
		NextHopType      string `json:"nextHopType"`
		NextHopIPAddress string `json:"nextHopIpAddress"`
	} `json:"properties"`
}

type armRouteTable struct {
	armResource
	Properties struct {
		DisableBGPRoutePropagation bool       `json:"disableBgpRoutePropagation"`
		Routes                     []armRoute `json:"routes"`
	} `json:"properties"`
}

func (rt armRouteTable) toInventory(subID string) inventory.RouteTable {
	routes := make([]inventory.Route, 0, len(rt.Properties.Routes))
	for _, r := range rt.Properties.Routes {
		routes = append(routes, inventory.Route{
			Name:             r.Name,
			AddressPrefix:    r.Properties.AddressPrefix,
			NextHopType:      r.Properties.NextHopType,
			NextHopIPAddress: r.Properties.NextHopIPAddress,
		})
	}
	return inventory.RouteTable{
		ID:                         rt.ID,
		Name:                       rt.Name,
		Location:                   rt.Location,
		ResourceGroupName:          resourceGroup(rt.ID),
		SubscriptionID:             subID,
		DisableBGPRoutePropagation: rt.Properties.DisableBGPRoutePropagation,
		Routes:                     routes,
	}
}

type armPeering struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties struct {
		AllowVirtualNetworkAccess bool   `json:"allowVirtualNetworkAccess"`
		AllowForwardedTraffic     bool   `json:"allowForwardedTraffic"`
		AllowGatewayTransit       bool   `json:"allowGatewayTransit"`
		UseRemoteGateways         bool   `json:"useRemoteGateways"`
		PeeringState              string `json:"peeringState"`
		RemoteVirtualNetwork      armRef `json:"remoteVirtualNetwork"`
	} `json:"properties"`
}

func (p armPeering) toInventory(subID, rg, vnet string) inventory.Peering {
	return inventory.Peering{
		ID:                        p.ID,
		Name:                      p.Name,
		VirtualNetworkName:        vnet,
		ResourceGroupName:         rg,
		SubscriptionID:            subID,
		AllowVirtualNetworkAccess: p.Properties.AllowVirtualNetworkAccess,
		AllowForwardedTraffic:     p.Properties.AllowForwardedTraffic,
		AllowGatewayTransit:       p.Properties.AllowGatewayTransit,
		UseRemoteGateways:         p.Properties.UseRemoteGateways,
		PeeringState:              p.Properties.PeeringState,
		RemoteVirtualNetwork:      inventory.Reference{ID: p.Properties.RemoteVirtualNetwork.ID},
	}
}

type armGateway struct {
	armResource
	Properties struct {
		GatewayType string `json:"gatewayType"`
	} `json:"properties"`
}

func (g armGateway) toInventory(subID string) inventory.VNetGateway {
	return inventory.VNetGateway{
		ID:                g.ID,
		Name:              g.Name,
		Location:          g.Location,
		GatewayType:       g.Properties.GatewayType,
		ResourceGroupName: resourceGroup(g.ID),
		SubscriptionID:    subID,
	}
}
