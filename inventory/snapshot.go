// Package inventory holds the captured Azure networking snapshot and the joins computed over it.
//
// A Snapshot is immutable once loaded. Every view (subnet routes, insights, validation) recomputes
// from the full snapshot; nothing here performs I/O except Load and Write.
package inventory

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Subscription is encoded on disk as a two element array: [id, display name].
type Subscription struct {
	ID          string
	DisplayName string
}

func (s Subscription) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{s.ID, s.DisplayName})
}

func (s *Subscription) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("subscription must be [id, name]: %w", err)
	}
	if len(pair) > 0 {
		s.ID = pair[0]
	}
	if len(pair) > 1 {
		s.DisplayName = pair[1]
	}
	return nil
}

// Reference points at another resource by its ARM identifier.
type Reference struct {
	ID string `json:"id"`
}

type AddressSpace struct {
	AddressPrefixes []string `json:"address_prefixes"`
}

type VirtualNetwork struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Location          string       `json:"location"`
	AddressSpace      AddressSpace `json:"address_space"`
	ResourceGroupName string       `json:"resource_group_name"`
	SubscriptionID    string       `json:"subscription_id"`
}

// Subnet references its route table and NSG by identifier. A nil reference means no association.
type Subnet struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	AddressPrefix        string     `json:"address_prefix,omitempty"`
	VirtualNetworkName   string     `json:"virtual_network_name"`
	ResourceGroupName    string     `json:"resource_group_name"`
	SubscriptionID       string     `json:"subscription_id"`
	RouteTable           *Reference `json:"route_table,omitempty"`
	NetworkSecurityGroup *Reference `json:"network_security_group,omitempty"`
}

type Route struct {
	Name             string `json:"name"`
	AddressPrefix    string `json:"address_prefix"`
	NextHopType      string `json:"next_hop_type"`
	NextHopIPAddress string `json:"next_hop_ip_address,omitempty"`
}

// RouteTable with a missing disable_bgp_route_propagation key decodes as propagation enabled.
type RouteTable struct {
	ID                         string  `json:"id"`
	Name                       string  `json:"name"`
	Location                   string  `json:"location,omitempty"`
	ResourceGroupName          string  `json:"resource_group_name"`
	SubscriptionID             string  `json:"subscription_id"`
	DisableBGPRoutePropagation bool    `json:"disable_bgp_route_propagation"`
	Routes                     []Route `json:"routes"`
}

type NetworkSecurityGroup struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Location          string `json:"location,omitempty"`
	ResourceGroupName string `json:"resource_group_name"`
	SubscriptionID    string `json:"subscription_id"`
}

type Peering struct {
	ID                        string    `json:"id"`
	Name                      string    `json:"name"`
	VirtualNetworkName        string    `json:"virtual_network_name"`
	ResourceGroupName         string    `json:"resource_group_name"`
	SubscriptionID            string    `json:"subscription_id"`
	AllowVirtualNetworkAccess bool      `json:"allow_virtual_network_access"`
	AllowForwardedTraffic     bool      `json:"allow_forwarded_traffic"`
	AllowGatewayTransit       bool      `json:"allow_gateway_transit"`
	UseRemoteGateways         bool      `json:"use_remote_gateways"`
	PeeringState              string    `json:"peering_state,omitempty"`
	RemoteVirtualNetwork      Reference `json:"remote_virtual_network"`
}

type VNetGateway struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Location          string `json:"location,omitempty"`
	GatewayType       string `json:"gateway_type,omitempty"`
	ResourceGroupName string `json:"resource_group_name"`
	SubscriptionID    string `json:"subscription_id"`
}

type ExpressRouteCircuit struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Location          string `json:"location,omitempty"`
	ResourceGroupName string `json:"resource_group_name"`
	SubscriptionID    string `json:"subscription_id"`
}

// Snapshot is one captured inventory pull. Treat it as read-only after construction.
type Snapshot struct {
	Subscriptions        []Subscription         `json:"subscriptions"`
	VNets                []VirtualNetwork       `json:"vnets"`
	Subnets              []Subnet               `json:"subnets"`
	RouteTables          []RouteTable           `json:"route_tables"`
	NSGs                 []NetworkSecurityGroup `json:"nsgs"`
	Peerings             []Peering              `json:"peerings"`
	VNetGateways         []VNetGateway          `json:"vnet_gateways"`
	ExpressRouteCircuits []ExpressRouteCircuit  `json:"express_route_circuits"`
	Insights             []json.RawMessage      `json:"insights"`

	indexOnce   sync.Once
	routeTables map[refKey]int
	nsgs        map[refKey]int
}

// Empty returns a snapshot with every collection empty (never nil).
func Empty() *Snapshot {
	s := &Snapshot{}
	s.normalize()
	return s
}

// IsEmpty reports whether no subscription was captured.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Subscriptions) == 0
}

// normalize replaces nil collections so the on-disk document always carries every key.
func (s *Snapshot) normalize() {
	if s.Subscriptions == nil {
		s.Subscriptions = []Subscription{}
	}
	if s.VNets == nil {
		s.VNets = []VirtualNetwork{}
	}
	if s.Subnets == nil {
		s.Subnets = []Subnet{}
	}
	if s.RouteTables == nil {
		s.RouteTables = []RouteTable{}
	}
	if s.NSGs == nil {
		s.NSGs = []NetworkSecurityGroup{}
	}
	if s.Peerings == nil {
		s.Peerings = []Peering{}
	}
	if s.VNetGateways == nil {
		s.VNetGateways = []VNetGateway{}
	}
	if s.ExpressRouteCircuits == nil {
		s.ExpressRouteCircuits = []ExpressRouteCircuit{}
	}
	if s.Insights == nil {
		s.Insights = []json.RawMessage{}
	}
}

// SubscriptionName returns the display name for a subscription id, or the id itself.
func (s *Snapshot) SubscriptionName(subscriptionID string) string {
	for _, sub := range s.Subscriptions {
		if sub.ID == subscriptionID {
			return sub.DisplayName
		}
	}
	return subscriptionID
}

// VNetsIn returns the virtual networks of one subscription in snapshot order.
func (s *Snapshot) VNetsIn(subscriptionID string) []VirtualNetwork {
	var out []VirtualNetwork
	for _, v := range s.VNets {
		if v.SubscriptionID == subscriptionID {
			out = append(out, v)
		}
	}
	return out
}

// SubnetsOf returns the subnets owned by a virtual network. Ownership is a name, resource group
// and subscription match; there is no explicit foreign key.
func (s *Snapshot) SubnetsOf(vnet VirtualNetwork) []Subnet {
	var out []Subnet
	for _, sn := range s.Subnets {
		if sn.VirtualNetworkName == vnet.Name && sn.ResourceGroupName == vnet.ResourceGroupName && sn.SubscriptionID == vnet.SubscriptionID {
			out = append(out, sn)
		}
	}
	return out
}

// PeeringsOf returns the peerings declared on a virtual network.
func (s *Snapshot) PeeringsOf(vnet VirtualNetwork) []Peering {
	var out []Peering
	for _, p := range s.Peerings {
		if p.VirtualNetworkName == vnet.Name && p.ResourceGroupName == vnet.ResourceGroupName && p.SubscriptionID == vnet.SubscriptionID {
			out = append(out, p)
		}
	}
	return out
}

// LookupSubscription finds a subscription by id, falling back to a case-insensitive display name match.
func (s *Snapshot) LookupSubscription(idOrName string) (Subscription, bool) {
	for _, sub := range s.Subscriptions {
		if sub.ID == idOrName {
			return sub, true
		}
	}
	for _, sub := range s.Subscriptions {
		if strings.EqualFold(sub.DisplayName, idOrName) {
			return sub, true
		}
	}
	return Subscription{}, false
}
