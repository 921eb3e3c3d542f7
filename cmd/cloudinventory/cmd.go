package cloudinventory

import (
	"strconv"
	"strings"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Declare local global variables
var outputFileName, subscription string

func init() {
	CloudInventoryCmd.Flags().StringVar(&outputFileName, "output-file", "", "optionally specify the name of the output file location. default is current location with a timestamped filename.")
	CloudInventoryCmd.Flags().StringVarP(&subscription, "subscription", "s", "", "optionally limit the inventory to one subscription id or display name.")
	CloudInventoryCmd.Flags().SortFlags = false
}

// CloudInventoryCmd runs the cloud-inventory command
var CloudInventoryCmd = &cobra.Command{
	Use:   "cloud-inventory",
	Short: "Create a CSV export of every subnet in the snapshot.",
	Long: `
Create a CSV export of every subnet in the snapshot with its virtual network, route table and NSG.

One row per subnet. Route tables and NSGs that cannot be resolved in the snapshot are shown as None.`,
	Run: func(cmd *cobra.Command, args []string) {

		snap := inventory.Load(viper.GetString("snapshot_path"))
		if snap.IsEmpty() {
			utils.LogErrorf("no environment data in %s. run azvnet fetch first.", viper.GetString("snapshot_path"))
			return
		}

		CloudInventory(snap)
	},
}

// CloudInventory writes the subnet inventory.
func CloudInventory(snap *inventory.Snapshot) {

	utils.LogStartCommand("cloud-inventory")

	subs := snap.Subscriptions
	if subscription != "" {
		sub, ok := snap.LookupSubscription(subscription)
		if !ok {
			utils.LogErrorf("%s is not in the snapshot", subscription)
			return
		}
		subs = []inventory.Subscription{sub}
	}

	csvData := inventoryRows(snap, subs)

	// If we have no subnets, exit
	if len(csvData) == 1 {
		utils.LogInfo("no subnets found.", true)
		utils.LogEndCommand("cloud-inventory")
		return
	}

	if outputFileName == "" {
		outputFileName = utils.FileName("cloud-inventory")
	}
	if err := utils.WriteOutput(csvData, nil, outputFileName); err != nil {
		utils.LogErrorf("writing output - %s", err)
		return
	}
	utils.LogInfof(true, "%d subnets exported.", len(csvData)-1)
	utils.LogEndCommand("cloud-inventory")
}

func inventoryRows(snap *inventory.Snapshot, subs []inventory.Subscription) [][]string {
	csvData := [][]string{{"subscription_id", "subscription_name", "resource_group", "vnet_name", "location", "vnet_prefixes", "subnet_name", "subnet_prefix", "route_table", "routes", "nsg"}}
	for _, sub := range subs {
		for _, vnet := range snap.VNetsIn(sub.ID) {
			for _, subnet := range snap.SubnetsOf(vnet) {
				rtName, routeCount := inventory.NoneValue, ""
				if rt, ok := inventory.ResolveRouteTable(snap, subnet, sub.ID); ok {
					rtName, routeCount = rt.Name, strconv.Itoa(len(rt.Routes))
				}
				nsgName := inventory.NoneValue
				if nsg, ok := inventory.ResolveNSG(snap, subnet, sub.ID); ok {
					nsgName = nsg.Name
				}
				prefix := subnet.AddressPrefix
				if prefix == "" {
					prefix = inventory.NAValue
				}
				csvData = append(csvData, []string{
					sub.ID,
					sub.DisplayName,
					vnet.ResourceGroupName,
					vnet.Name,
					vnet.Location,
					strings.Join(vnet.AddressSpace.AddressPrefixes, ";"),
					subnet.Name,
					prefix,
					rtName,
					routeCount,
					nsgName,
				})
			}
		}
	}
	return csvData
}
