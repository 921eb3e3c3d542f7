package inventory

import "sort"

// SubscriptionInsight is the per-subscription count summary.
//
// NSGs, RouteTables and BGPEnabledSubnets count subnet associations, not distinct resources: a
// route table shared by three subnets contributes three.
type SubscriptionInsight struct {
	SubscriptionID       string   `json:"subscription_id"`
	SubscriptionName     string   `json:"subscription_name"`
	VNets                int      `json:"total_vnets"`
	Subnets              int      `json:"total_subnets"`
	NSGs                 int      `json:"total_nsgs"`
	RouteTables          int      `json:"total_route_tables"`
	BGPEnabledSubnets    int      `json:"subnets_with_bgp_enabled"`
	Peerings             int      `json:"total_peerings"`
	VNetGateways         int      `json:"total_vnet_gateways"`
	ExpressRouteCircuits int      `json:"total_express_route_circuits"`
	Regions              []string `json:"regions"`
}

// RegionCount is the number of distinct VNet locations.
func (i SubscriptionInsight) RegionCount() int {
	return len(i.Regions)
}

// Aggregate computes one insight per subscription in snapshot order. It never mutates snap.
func Aggregate(snap *Snapshot) []SubscriptionInsight {
	insights := make([]SubscriptionInsight, 0, len(snap.Subscriptions))
	for _, sub := range snap.Subscriptions {
		insights = append(insights, aggregateSubscription(snap, sub))
	}
	return insights
}

func aggregateSubscription(snap *Snapshot, sub Subscription) SubscriptionInsight {
	in := SubscriptionInsight{
		SubscriptionID:   sub.ID,
		SubscriptionName: sub.DisplayName,
	}

	regions := make(map[string]bool)
	for _, vnet := range snap.VNetsIn(sub.ID) {
		in.VNets++
		if vnet.Location != "" {
			regions[vnet.Location] = true
		}

		for _, subnet := range snap.SubnetsOf(vnet) {
			in.Subnets++
			if subnet.NetworkSecurityGroup != nil && subnet.NetworkSecurityGroup.ID != "" {
				in.NSGs++
			}
			if subnet.RouteTable != nil && subnet.RouteTable.ID != "" {
				in.RouteTables++
				if rt, ok := ResolveRouteTable(snap, subnet, sub.ID); ok && !rt.DisableBGPRoutePropagation {
					in.BGPEnabledSubnets++
				}
			}
		}

		in.Peerings += len(snap.PeeringsOf(vnet))
	}

	gateways := make(map[string]bool)
	for _, gw := range snap.VNetGateways {
		if gw.SubscriptionID == sub.ID {
			gateways[gw.ID] = true
		}
	}
	in.VNetGateways = len(gateways)

	for _, c := range snap.ExpressRouteCircuits {
		if c.SubscriptionID == sub.ID {
			in.ExpressRouteCircuits++
		}
	}

	in.Regions = make([]string, 0, len(regions))
	for r := range regions {
		in.Regions = append(in.Regions, r)
	}
	sort.Strings(in.Regions)

	return in
}

// InsightTotals sums every count across subscriptions. Regions are merged and sorted.
func InsightTotals(insights []SubscriptionInsight) SubscriptionInsight {
	total := SubscriptionInsight{SubscriptionName: "Total"}
	regions := make(map[string]bool)
	for _, in := range insights {
		total.VNets += in.VNets
		total.Subnets += in.Subnets
		total.NSGs += in.NSGs
		total.RouteTables += in.RouteTables
		total.BGPEnabledSubnets += in.BGPEnabledSubnets
		total.Peerings += in.Peerings
		total.VNetGateways += in.VNetGateways
		total.ExpressRouteCircuits += in.ExpressRouteCircuits
		for _, r := range in.Regions {
			regions[r] = true
		}
	}
	total.Regions = make([]string, 0, len(regions))
	for r := range regions {
		total.Regions = append(total.Regions, r)
	}
	sort.Strings(total.Regions)
	return total
}
