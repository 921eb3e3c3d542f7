package inventory

import "github.com/netbeacon/azvnet/utils"

type refKey struct {
	subscriptionID string
	resourceID     string
}

// buildIndex maps (subscription id, resource id) to the first matching position, which is what a
// linear scan for the first match would return.
func (s *Snapshot) buildIndex() {
	s.indexOnce.Do(func() {
		s.routeTables = make(map[refKey]int, len(s.RouteTables))
		for i, rt := range s.RouteTables {
			k := refKey{rt.SubscriptionID, rt.ID}
			if _, ok := s.routeTables[k]; !ok {
				s.routeTables[k] = i
			}
		}
		s.nsgs = make(map[refKey]int, len(s.NSGs))
		for i, nsg := range s.NSGs {
			k := refKey{nsg.SubscriptionID, nsg.ID}
			if _, ok := s.nsgs[k]; !ok {
				s.nsgs[k] = i
			}
		}
	})
}

// ResolveRouteTable returns the route table the subnet references within subscriptionID.
// The second return is false when the subnet has no route table or the reference cannot be
// found; the latter is logged and callers render a placeholder.
func ResolveRouteTable(snap *Snapshot, subnet Subnet, subscriptionID string) (RouteTable, bool) {
	if subnet.RouteTable == nil || subnet.RouteTable.ID == "" {
		return RouteTable{}, false
	}
	snap.buildIndex()
	if i, ok := snap.routeTables[refKey{subscriptionID, subnet.RouteTable.ID}]; ok {
		return snap.RouteTables[i], true
	}
	utils.WithFields(map[string]interface{}{
		"subscription_id": subscriptionID,
		"subnet":          subnet.Name,
		"route_table_id":  subnet.RouteTable.ID,
	}).Warn("route table not found for subscription")
	return RouteTable{}, false
}

// ResolveNSG returns the network security group the subnet references within subscriptionID.
func ResolveNSG(snap *Snapshot, subnet Subnet, subscriptionID string) (NetworkSecurityGroup, bool) {
	if subnet.NetworkSecurityGroup == nil || subnet.NetworkSecurityGroup.ID == "" {
		return NetworkSecurityGroup{}, false
	}
	snap.buildIndex()
	if i, ok := snap.nsgs[refKey{subscriptionID, subnet.NetworkSecurityGroup.ID}]; ok {
		return snap.NSGs[i], true
	}
	utils.WithFields(map[string]interface{}{
		"subscription_id": subscriptionID,
		"subnet":          subnet.Name,
		"nsg_id":          subnet.NetworkSecurityGroup.ID,
	}).Warn("nsg not found for subscription")
	return NetworkSecurityGroup{}, false
}
