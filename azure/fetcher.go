// Package azure pulls the networking inventory from Azure Resource Manager using a service principal
// or the credential cached by the Azure CLI.
package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/go-autorest/autorest"
	"github.com/Azure/go-autorest/autorest/adal"
	"github.com/Azure/go-autorest/autorest/azure"
	"github.com/Azure/go-autorest/autorest/azure/cli"
	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/utils"
	"golang.org/x/sync/errgroup"
)

// ErrNoCredential is returned when no Azure CLI token can be obtained.
var ErrNoCredential = errors.New("no Azure credential available, run az login or set a service principal")

const (
	subscriptionsAPIVersion = "2020-01-01"
	resourcesAPIVersion     = "2021-04-01"
	networkAPIVersion       = "2023-09-01"

	defaultConcurrency = 4
)

// Config controls where and how hard the fetcher talks to ARM.
type Config struct {
	// Endpoint is the Resource Manager base URL. Empty means the public cloud.
	Endpoint string
	// Concurrency bounds the number of subscriptions fetched at once.
	Concurrency int
	UserAgent   string
	// Verbose logs every raw response body at debug level.
	Verbose bool

	// TenantID, ClientID and ClientSecret select a service principal. All three must be set,
	// otherwise the Azure CLI token is used.
	TenantID     string
	ClientID     string
	ClientSecret string
}

func (c Config) servicePrincipal() bool {
	return c.TenantID != "" && c.ClientID != "" && c.ClientSecret != ""
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = azure.PublicCloud.ResourceManagerEndpoint
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.UserAgent == "" {
		c.UserAgent = "azvnet/" + utils.GetVersion()
	}
	return c
}

// Fetcher builds snapshots from live ARM calls.
type Fetcher struct {
	client      autorest.Client
	endpoint    string
	concurrency int
	verbose     bool
}

// NewFetcher authenticates with the configured service principal, or the Azure CLI token for the
// configured endpoint.
func NewFetcher(cfg Config) (*Fetcher, error) {
	cfg = cfg.withDefaults()
	if cfg.servicePrincipal() {
		oauth, err := adal.NewOAuthConfig(azure.PublicCloud.ActiveDirectoryEndpoint, cfg.TenantID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNoCredential, err)
		}
		spt, err := adal.NewServicePrincipalToken(*oauth, cfg.ClientID, cfg.ClientSecret, cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNoCredential, err)
		}
		utils.WithFields(map[string]interface{}{"tenant_id": cfg.TenantID, "client_id": cfg.ClientID}).Info("using service principal")
		return NewFetcherWithAuthorizer(cfg, autorest.NewBearerAuthorizer(spt)), nil
	}

	tok, err := cli.GetTokenFromCLI(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoCredential, err)
	}
	adalTok, err := tok.ToADALToken()
	if err != nil {
		return nil, fmt.Errorf("%w: converting CLI token: %s", ErrNoCredential, err)
	}
	return NewFetcherWithAuthorizer(cfg, autorest.NewBearerAuthorizer(&adalTok)), nil
}

// NewFetcherWithAuthorizer uses auth for every request.
func NewFetcherWithAuthorizer(cfg Config, auth autorest.Authorizer) *Fetcher {
	cfg = cfg.withDefaults()
	client := autorest.NewClientWithUserAgent(cfg.UserAgent)
	client.Authorizer = auth
	return &Fetcher{client: client, endpoint: cfg.Endpoint, concurrency: cfg.Concurrency, verbose: cfg.Verbose}
}

// Fetch lists every visible subscription and collects its networking resources. Failures below the
// subscription list are logged and the affected resource is skipped.
func (f *Fetcher) Fetch(ctx context.Context) (*inventory.Snapshot, error) {
	start := time.Now()
	defer func() { fetchDuration.Observe(time.Since(start).Seconds()) }()

	subs, err := listAll[armSubscription](ctx, f, "/subscriptions", subscriptionsAPIVersion)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	parts := make([]*subscriptionInventory, len(subs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, sub := range subs {
		g.Go(func() error {
			parts[i] = f.fetchSubscription(gctx, sub.SubscriptionID)
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := inventory.Empty()
	for i, sub := range subs {
		snap.Subscriptions = append(snap.Subscriptions, inventory.Subscription{ID: sub.SubscriptionID, DisplayName: sub.DisplayName})
		p := parts[i]
		snap.VNets = append(snap.VNets, p.vnets...)
		snap.Subnets = append(snap.Subnets, p.subnets...)
		snap.RouteTables = append(snap.RouteTables, p.routeTables...)
		snap.NSGs = append(snap.NSGs, p.nsgs...)
		snap.Peerings = append(snap.Peerings, p.peerings...)
		snap.VNetGateways = append(snap.VNetGateways, p.gateways...)
		snap.ExpressRouteCircuits = append(snap.ExpressRouteCircuits, p.circuits...)
	}

	for _, in := range inventory.Aggregate(snap) {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encoding insights: %w", err)
		}
		snap.Insights = append(snap.Insights, raw)
	}

	utils.WithFields(map[string]interface{}{
		"subscriptions": len(snap.Subscriptions),
		"vnets":         len(snap.VNets),
		"subnets":       len(snap.Subnets),
		"elapsed":       time.Since(start).Round(time.Millisecond).String(),
	}).Info("fetch complete")
	return snap, nil
}

type subscriptionInventory struct {
	vnets       []inventory.VirtualNetwork
	subnets     []inventory.Subnet
	routeTables []inventory.RouteTable
	nsgs        []inventory.NetworkSecurityGroup
	peerings    []inventory.Peering
	gateways    []inventory.VNetGateway
	circuits    []inventory.ExpressRouteCircuit
}

func (f *Fetcher) fetchSubscription(ctx context.Context, subID string) *subscriptionInventory {
	out := &subscriptionInventory{}
	log := utils.WithFields(map[string]interface{}{"subscription_id": subID})

	vnets, err := listAll[armVirtualNetwork](ctx, f, "/subscriptions/"+subID+"/providers/Microsoft.Network/virtualNetworks", networkAPIVersion)
	if err != nil {
		log.Warnf("listing virtual networks: %s", err)
	}

	seenRT := make(map[string]bool)
	seenNSG := make(map[string]bool)
	seenGW := make(map[string]bool)
	seenRG := make(map[string]bool)

	for _, v := range vnets {
		rg := resourceGroup(v.ID)
		out.vnets = append(out.vnets, v.toInventory(subID, rg))

		subnets, err := listAll[armSubnet](ctx, f, v.ID+"/subnets", networkAPIVersion)
		if err != nil {
			log.WithField("vnet", v.Name).Warnf("listing subnets: %s", err)
		}
		for _, s := range subnets {
			subnet := s.toInventory(subID, rg, v.Name)
			out.subnets = append(out.subnets, subnet)

			if ref := subnet.RouteTable; ref != nil && ref.ID != "" && !seenRT[ref.ID] {
				seenRT[ref.ID] = true
				rt, err := getOne[armRouteTable](ctx, f, ref.ID, networkAPIVersion)
				if err != nil {
					log.WithField("route_table_id", ref.ID).Warnf("getting route table: %s", err)
				} else {
					out.routeTables = append(out.routeTables, rt.toInventory(subID))
				}
			}
			if ref := subnet.NetworkSecurityGroup; ref != nil && ref.ID != "" && !seenNSG[ref.ID] {
				seenNSG[ref.ID] = true
				nsg, err := getOne[armResource](ctx, f, ref.ID, networkAPIVersion)
				if err != nil {
					log.WithField("nsg_id", ref.ID).Warnf("getting nsg: %s", err)
				} else {
					out.nsgs = append(out.nsgs, nsg.toNSG(subID))
				}
			}
		}

		peerings, err := listAll[armPeering](ctx, f, v.ID+"/virtualNetworkPeerings", networkAPIVersion)
		if err != nil {
			log.WithField("vnet", v.Name).Warnf("listing peerings: %s", err)
		}
		for _, p := range peerings {
			out.peerings = append(out.peerings, p.toInventory(subID, rg, v.Name))
		}

		if rg == "" || seenRG[rg] {
			continue
		}
		seenRG[rg] = true
		gateways, err := listAll[armGateway](ctx, f, "/subscriptions/"+subID+"/resourceGroups/"+rg+"/providers/Microsoft.Network/virtualNetworkGateways", networkAPIVersion)
		if err != nil {
			log.WithField("resource_group", rg).Warnf("listing vnet gateways: %s", err)
		}
		for _, gw := range gateways {
			if seenGW[gw.ID] {
				continue
			}
			seenGW[gw.ID] = true
			out.gateways = append(out.gateways, gw.toInventory(subID))
		}
	}

	groups, err := listAll[armResource](ctx, f, "/subscriptions/"+subID+"/resourcegroups", resourcesAPIVersion)
	if err != nil {
		log.Warnf("listing resource groups: %s", err)
	}
	for _, g := range groups {
		circuits, err := listAll[armResource](ctx, f, "/subscriptions/"+subID+"/resourceGroups/"+g.Name+"/providers/Microsoft.Network/expressRouteCircuits", networkAPIVersion)
		if err != nil {
			log.WithField("resource_group", g.Name).Warnf("listing expressroute circuits: %s", err)
			continue
		}
		for _, c := range circuits {
			out.circuits = append(out.circuits, c.toCircuit(subID, g.Name))
		}
	}

	return out
}

// resourceGroup extracts the resource group from an ARM id, or "" when the id does not parse.
func resourceGroup(id string) string {
	res, err := azure.ParseResourceID(id)
	if err != nil {
		utils.LogDebug(fmt.Sprintf("parsing resource id %s: %s", id, err))
		return ""
	}
	return res.ResourceGroup
}
