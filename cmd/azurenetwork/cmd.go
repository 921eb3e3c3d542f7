package azurenetwork

import (
	"context"
	"time"

	"github.com/netbeacon/azvnet/azure"
	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var concurrency int
var timeout time.Duration

func init() {
	FetchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of subscriptions fetched in parallel. default is fetch_concurrency from azvnet.yaml (4).")
	FetchCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "abort the fetch after this long.")
	FetchCmd.Flags().SortFlags = false
}

// FetchCmd captures the Azure environment into the snapshot file
var FetchCmd = &cobra.Command{
	Use:     "fetch",
	Aliases: []string{"load-environment"},
	Short:   "Capture every subscription's virtual networks, routes, NSGs, peerings, gateways and circuits.",
	Long: `
Capture every subscription's virtual networks, subnets, route tables, NSGs, peerings, gateways and ExpressRoute circuits into the snapshot file.

When AZURE_TENANT_ID, AZURE_CLIENT_ID and AZURE_CLIENT_SECRET are set the service principal is used.
Otherwise the command relies on the Azure CLI being installed and authenticated. See here for installing the Azure CLI: https://learn.microsoft.com/en-us/cli/azure/install-azure-cli.

To test the Azure CLI is authenticated, run "az account list" and ensure JSON output is displayed.

The snapshot is replaced atomically, so a running dashboard picks it up without seeing a partial file.
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := Config()
		if concurrency > 0 {
			cfg.Concurrency = concurrency
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		FetchEnvironment(ctx, cfg, viper.GetString("snapshot_path"))
	},
}

// FetchEnvironment pulls the environment with the Azure CLI credential and writes it to path.
func FetchEnvironment(ctx context.Context, cfg azure.Config, path string) {

	utils.LogStartCommand("fetch")

	f, err := azure.NewFetcher(cfg)
	if err != nil {
		utils.LogErrorf("authenticating with the azure cli - %s", err)
		return
	}

	snap, err := f.Fetch(ctx)
	if err != nil {
		utils.LogErrorf("fetching environment - %s", err)
		return
	}

	if err := inventory.Write(path, snap); err != nil {
		utils.LogErrorf("writing snapshot - %s", err)
		return
	}

	utils.LogInfof(true, "%d subscriptions, %d vnets, %d subnets, %d route tables and %d peerings written to %s", len(snap.Subscriptions), len(snap.VNets), len(snap.Subnets), len(snap.RouteTables), len(snap.Peerings), path)
	utils.LogEndCommand("fetch")
}
