package inventory

// PeeringRole selects which hub-and-spoke expectations a peering is checked against.
type PeeringRole int

const (
	RoleNone PeeringRole = iota
	RoleHub
	RoleSpoke
)

// PeeringStatus is one peering of the selected virtual network with its role findings.
type PeeringStatus struct {
	PeeringName           string   `json:"peering_name"`
	AllowVNetAccess       bool     `json:"allow_vnet_access"`
	AllowForwardedTraffic bool     `json:"allow_forwarded_traffic"`
	UseRemoteGateways     bool     `json:"use_remote_gateways"`
	AllowGatewayTransit   bool     `json:"allow_gateway_transit"`
	PeeringState          string   `json:"peering_state,omitempty"`
	RemoteVirtualNetwork  string   `json:"remote_virtual_network"`
	Findings              []string `json:"findings,omitempty"`
}

// HubPeerings lists the peerings declared on vnetName in subscriptionID, in snapshot order.
func HubPeerings(snap *Snapshot, subscriptionID, vnetName string, role PeeringRole) []PeeringStatus {
	var out []PeeringStatus
	for _, p := range snap.Peerings {
		if p.VirtualNetworkName != vnetName || p.SubscriptionID != subscriptionID {
			continue
		}
		out = append(out, PeeringStatus{
			PeeringName:           p.Name,
			AllowVNetAccess:       p.AllowVirtualNetworkAccess,
			AllowForwardedTraffic: p.AllowForwardedTraffic,
			UseRemoteGateways:     p.UseRemoteGateways,
			AllowGatewayTransit:   p.AllowGatewayTransit,
			PeeringState:          p.PeeringState,
			RemoteVirtualNetwork:  p.RemoteVirtualNetwork.ID,
			Findings:              peeringFindings(p, role),
		})
	}
	return out
}

func peeringFindings(p Peering, role PeeringRole) []string {
	var findings []string
	if !p.AllowVirtualNetworkAccess {
		findings = append(findings, "virtual network access is not allowed")
	}
	if p.PeeringState != "" && p.PeeringState != "Connected" {
		findings = append(findings, "peering state is "+p.PeeringState)
	}
	switch role {
	case RoleHub:
		if !p.AllowGatewayTransit {
			findings = append(findings, "hub peering should allow gateway transit")
		}
		if p.UseRemoteGateways {
			findings = append(findings, "hub peering should not use remote gateways")
		}
	case RoleSpoke:
		if !p.AllowForwardedTraffic {
			findings = append(findings, "spoke peering should allow forwarded traffic")
		}
		if p.AllowGatewayTransit {
			findings = append(findings, "spoke peering should not allow gateway transit")
		}
	}
	return findings
}
