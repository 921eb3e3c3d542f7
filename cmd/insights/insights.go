package insights

import (
	"strconv"
	"strings"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var outputFileName string

func init() {
	InsightsCmd.Flags().StringVar(&outputFileName, "output-file", "", "optionally specify the name of the output file location. default is current location with a timestamped filename.")
	InsightsCmd.Flags().SortFlags = false
}

// InsightsCmd summarizes every subscription
var InsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Count virtual networks, subnets, NSGs, route tables, peerings, gateways and circuits per subscription.",
	Long: `
Count virtual networks, subnets, NSGs, route tables, peerings, gateways and ExpressRoute circuits per subscription.

NSG and route table columns count subnet associations. A route table shared by three subnets counts three times.
The last row totals every column.`,
	Run: func(cmd *cobra.Command, args []string) {

		snap := inventory.Load(viper.GetString("snapshot_path"))
		if snap.IsEmpty() {
			utils.LogErrorf("no environment data in %s. run azvnet fetch first.", viper.GetString("snapshot_path"))
			return
		}

		Insights(snap)
	},
}

// Insights writes one row per subscription plus a total row.
func Insights(snap *inventory.Snapshot) {

	utils.LogStartCommand("insights")

	csvData := table(inventory.Aggregate(snap))

	if outputFileName == "" {
		outputFileName = utils.FileName("insights")
	}
	if err := utils.WriteOutput(csvData, nil, outputFileName); err != nil {
		utils.LogErrorf("writing output - %s", err)
		return
	}
	utils.LogEndCommand("insights")
}

func table(insights []inventory.SubscriptionInsight) [][]string {
	csvData := [][]string{{"subscription_id", "subscription_name", "vnets", "subnets", "nsgs", "route_tables", "bgp_enabled_subnets", "peerings", "vnet_gateways", "express_route_circuits", "regions", "region_names"}}
	for _, in := range insights {
		csvData = append(csvData, row(in))
	}
	return append(csvData, row(inventory.InsightTotals(insights)))
}

func row(in inventory.SubscriptionInsight) []string {
	return []string{
		in.SubscriptionID,
		in.SubscriptionName,
		strconv.Itoa(in.VNets),
		strconv.Itoa(in.Subnets),
		strconv.Itoa(in.NSGs),
		strconv.Itoa(in.RouteTables),
		strconv.Itoa(in.BGPEnabledSubnets),
		strconv.Itoa(in.Peerings),
		strconv.Itoa(in.VNetGateways),
		strconv.Itoa(in.ExpressRouteCircuits),
		strconv.Itoa(in.RegionCount()),
		strings.Join(in.Regions, ";"),
	}
}
