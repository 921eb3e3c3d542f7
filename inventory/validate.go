package inventory

import (
	"fmt"

	"github.com/netbeacon/azvnet/utils"
)

// NextHopVirtualAppliance is the next hop type that routes traffic through a firewall or NVA.
const NextHopVirtualAppliance = "VirtualAppliance"

// Issue is one route that failed validation.
type Issue struct {
	Subscription   string `json:"subscription"`
	RouteTableName string `json:"route_table_name"`
	RouteName      string `json:"route_name"`
	Description    string `json:"description"`
}

// Rule inspects one route. It returns a description and true when the route is an issue.
type Rule interface {
	Check(rt RouteTable, route Route, firewallIP string) (string, bool)
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(rt RouteTable, route Route, firewallIP string) (string, bool)

func (f RuleFunc) Check(rt RouteTable, route Route, firewallIP string) (string, bool) {
	return f(rt, route, firewallIP)
}

// FirewallNextHopRule flags VirtualAppliance routes whose next hop is not the expected firewall.
// An empty firewallIP means no firewall was supplied, so every VirtualAppliance route is flagged.
var FirewallNextHopRule = RuleFunc(func(_ RouteTable, route Route, firewallIP string) (string, bool) {
	if route.NextHopType != NextHopVirtualAppliance {
		return "", false
	}
	if firewallIP != "" && route.NextHopIPAddress == firewallIP {
		return "", false
	}
	ip := route.NextHopIPAddress
	if ip == "" {
		ip = NoneValue
	}
	return fmt.Sprintf("has an incorrect next hop IP address: %s", ip), true
})

// PublicNextHopRule flags VirtualAppliance routes pointing outside RFC1918 space.
var PublicNextHopRule = RuleFunc(func(_ RouteTable, route Route, _ string) (string, bool) {
	if route.NextHopType != NextHopVirtualAppliance || route.NextHopIPAddress == "" {
		return "", false
	}
	if utils.IsRFC1918(route.NextHopIPAddress) {
		return "", false
	}
	return fmt.Sprintf("has a next hop outside private address space: %s", route.NextHopIPAddress), true
})

// DefaultRules is the rule set used by Validate.
var DefaultRules = []Rule{FirewallNextHopRule}

// Validator runs an ordered rule set over route tables.
type Validator struct {
	rules []Rule
}

// NewValidator returns a validator using rules, or DefaultRules when none are given.
func NewValidator(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Validator{rules: rules}
}

// Validate emits at most one issue per route: the first rule that flags it wins. Issues follow
// route table order, then route order within each table.
func (v *Validator) Validate(routeTables []RouteTable, firewallIP string) []Issue {
	issues := []Issue{}
	for _, rt := range routeTables {
		for _, route := range rt.Routes {
			for _, rule := range v.rules {
				desc, flagged := rule.Check(rt, route, firewallIP)
				if !flagged {
					continue
				}
				issues = append(issues, Issue{
					Subscription:   rt.SubscriptionID,
					RouteTableName: rt.Name,
					RouteName:      route.Name,
					Description:    desc,
				})
				break
			}
		}
	}
	return issues
}

// Validate checks the route tables with DefaultRules. Subnets and NSGs are accepted so rules that
// need them can be added without changing callers; the default rule set only reads routes.
func Validate(subnets []Subnet, routeTables []RouteTable, nsgs []NetworkSecurityGroup, expectedFirewallIP string) []Issue {
	return NewValidator().Validate(routeTables, expectedFirewallIP)
}

// Scope is the subset of a snapshot handed to the validator.
type Scope struct {
	Subnets     []Subnet
	RouteTables []RouteTable
	NSGs        []NetworkSecurityGroup
}

// SpokeScope collects the subnets of every subscription except the hub, plus the route tables and
// NSGs they reference. Route tables and NSGs keep snapshot order and appear once per id.
func SpokeScope(snap *Snapshot, hubSubscriptionID string) Scope {
	var scope Scope
	rtIDs := make(map[refKey]bool)
	nsgIDs := make(map[refKey]bool)

	for _, sub := range snap.Subscriptions {
		if sub.ID == hubSubscriptionID {
			continue
		}
		for _, vnet := range snap.VNetsIn(sub.ID) {
			for _, subnet := range snap.SubnetsOf(vnet) {
				scope.Subnets = append(scope.Subnets, subnet)
				if subnet.RouteTable != nil && subnet.RouteTable.ID != "" {
					rtIDs[refKey{sub.ID, subnet.RouteTable.ID}] = true
				}
				if subnet.NetworkSecurityGroup != nil && subnet.NetworkSecurityGroup.ID != "" {
					nsgIDs[refKey{sub.ID, subnet.NetworkSecurityGroup.ID}] = true
				}
			}
		}
	}

	seen := make(map[refKey]bool)
	for _, rt := range snap.RouteTables {
		k := refKey{rt.SubscriptionID, rt.ID}
		if rtIDs[k] && !seen[k] {
			seen[k] = true
			scope.RouteTables = append(scope.RouteTables, rt)
		}
	}
	seen = make(map[refKey]bool)
	for _, nsg := range snap.NSGs {
		k := refKey{nsg.SubscriptionID, nsg.ID}
		if nsgIDs[k] && !seen[k] {
			seen[k] = true
			scope.NSGs = append(scope.NSGs, nsg)
		}
	}
	return scope
}

// ValidateSpokes runs the default validation over every subscription except the hub.
func ValidateSpokes(snap *Snapshot, hubSubscriptionID, firewallIP string) []Issue {
	scope := SpokeScope(snap, hubSubscriptionID)
	return Validate(scope.Subnets, scope.RouteTables, scope.NSGs, firewallIP)
}
