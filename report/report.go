// Package report renders the network inventory as a printable document.
package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/netbeacon/azvnet/inventory"
)

// SubscriptionRoutes is the subnet route view of one subscription.
type SubscriptionRoutes struct {
	SubscriptionID   string
	SubscriptionName string
	Rows             []inventory.SubnetRoute
}

// Data is everything a report shows. It is computed once from a snapshot.
type Data struct {
	ID           string
	GeneratedAt  time.Time
	SnapshotPath string

	Insights []inventory.SubscriptionInsight
	Totals   inventory.SubscriptionInsight
	Routes   []SubscriptionRoutes

	// FirewallIP enables the route issues section. HubSubscriptionID limits the check to spokes.
	FirewallIP        string
	HubSubscriptionID string
	Issues            []inventory.Issue
}

// Options selects the optional report sections.
type Options struct {
	SnapshotPath      string
	FirewallIP        string
	HubSubscriptionID string
}

// Build computes report data from snap.
func Build(snap *inventory.Snapshot, opts Options) *Data {
	insights := inventory.Aggregate(snap)
	data := &Data{
		ID:                uuid.NewString(),
		GeneratedAt:       time.Now(),
		SnapshotPath:      opts.SnapshotPath,
		Insights:          insights,
		Totals:            inventory.InsightTotals(insights),
		FirewallIP:        opts.FirewallIP,
		HubSubscriptionID: opts.HubSubscriptionID,
	}

	for _, sub := range snap.Subscriptions {
		data.Routes = append(data.Routes, SubscriptionRoutes{
			SubscriptionID:   sub.ID,
			SubscriptionName: sub.DisplayName,
			Rows:             inventory.SubnetRoutes(snap, sub.ID),
		})
	}

	if opts.FirewallIP != "" {
		if opts.HubSubscriptionID != "" {
			data.Issues = inventory.ValidateSpokes(snap, opts.HubSubscriptionID, opts.FirewallIP)
		} else {
			data.Issues = inventory.Validate(snap.Subnets, snap.RouteTables, snap.NSGs, opts.FirewallIP)
		}
	}
	return data
}

// HasIssuesSection reports whether route validation ran for this report.
func (d *Data) HasIssuesSection() bool {
	return d.FirewallIP != ""
}
