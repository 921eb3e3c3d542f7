package routes

import (
	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/report"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Declare local global variables
var outputFileName, subscription string

func init() {
	RoutesCmd.Flags().StringVarP(&subscription, "subscription", "s", "", "subscription id or display name.")
	RoutesCmd.Flags().StringVar(&outputFileName, "output-file", "", "optionally specify the name of the output file location. default is current location with a timestamped filename.")
	RoutesCmd.MarkFlagRequired("subscription")
	RoutesCmd.Flags().SortFlags = false
}

// RoutesCmd shows the route table, BGP propagation and NSG of every subnet in a subscription
var RoutesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Show the route table, BGP propagation and NSG of every subnet in a subscription.",
	Long: `
Show the route table, BGP propagation and NSG of every subnet in a subscription.

Stdout shows one row per subnet with its routes listed in one cell. The CSV has one row per route so it can be filtered.`,
	Run: func(cmd *cobra.Command, args []string) {

		snap := inventory.Load(viper.GetString("snapshot_path"))
		if snap.IsEmpty() {
			utils.LogErrorf("no environment data in %s. run azvnet fetch first.", viper.GetString("snapshot_path"))
			return
		}
		sub, ok := snap.LookupSubscription(subscription)
		if !ok {
			utils.LogErrorf("%s is not in the snapshot", subscription)
			return
		}

		SubnetRoutes(snap, sub)
	},
}

// SubnetRoutes writes the subnet route view for one subscription.
func SubnetRoutes(snap *inventory.Snapshot, sub inventory.Subscription) {

	utils.LogStartCommand("routes")

	rows := inventory.SubnetRoutes(snap, sub.ID)
	if len(rows) == 0 {
		utils.LogInfof(true, "no subnets found in %s.", sub.DisplayName)
		utils.LogEndCommand("routes")
		return
	}

	csvData, stdOutData := tables(rows)

	if outputFileName == "" {
		outputFileName = utils.FileName("routes")
	}
	if err := utils.WriteOutput(csvData, stdOutData, outputFileName); err != nil {
		utils.LogErrorf("writing output - %s", err)
		return
	}
	utils.LogInfof(true, "%d subnets in %s.", len(rows), sub.DisplayName)
	utils.LogEndCommand("routes")
}

func tables(rows []inventory.SubnetRoute) (csvData, stdOutData [][]string) {
	csvData = [][]string{{"vnet_name", "vnet_prefixes", "subnet_name", "subnet_prefix", "route_table", "bgp_propagation", "nsg", "route_name", "address_prefix", "next_hop_type", "next_hop_ip"}}
	stdOutData = [][]string{{"vnet", "vnet prefixes", "subnet", "subnet prefix", "route table", "bgp", "routes", "nsg"}}

	for _, r := range rows {
		stdOutData = append(stdOutData, []string{r.VNetName, r.VNetPrefixes, r.SubnetName, r.SubnetPrefix, r.RouteTableName, r.BGPPropagation, report.FormatRoutes(r.Routes), r.NSGName})

		base := []string{r.VNetName, r.VNetPrefixes, r.SubnetName, r.SubnetPrefix, r.RouteTableName, r.BGPPropagation, r.NSGName}
		if len(r.Routes) == 0 {
			csvData = append(csvData, append(base, "", "", "", ""))
			continue
		}
		for _, route := range r.Routes {
			row := append(append([]string{}, base...), route.Name, route.AddressPrefix, route.NextHopType, route.NextHopIP())
			csvData = append(csvData, row)
		}
	}
	return csvData, stdOutData
}
