package autovalidate

import (
	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Declare local global variables
var outputFileName, hubSubscription, firewallIP string
var publicNextHop bool

func init() {
	AutoValidateCmd.Flags().StringVar(&hubSubscription, "hub-subscription", "", "hub subscription id or display name. its route tables are skipped. when not set every route table is checked.")
	AutoValidateCmd.Flags().StringVar(&firewallIP, "firewall-ip", "", "expected next hop for VirtualAppliance routes. when not set every VirtualAppliance route is reported.")
	AutoValidateCmd.Flags().BoolVar(&publicNextHop, "public-next-hop", false, "also report VirtualAppliance routes whose next hop is outside RFC1918 space.")
	AutoValidateCmd.Flags().StringVar(&outputFileName, "output-file", "", "optionally specify the name of the output file location. default is current location with a timestamped filename.")
	AutoValidateCmd.Flags().SortFlags = false
}

// AutoValidateCmd checks spoke route tables against the expected firewall
var AutoValidateCmd = &cobra.Command{
	Use:   "auto-validate",
	Short: "Report VirtualAppliance routes that do not point at the expected firewall.",
	Long: `
Report VirtualAppliance routes that do not point at the expected firewall.

With --hub-subscription, only the route tables associated with subnets in the other subscriptions are checked.
Each route is reported at most once.`,
	Run: func(cmd *cobra.Command, args []string) {

		snap := inventory.Load(viper.GetString("snapshot_path"))
		if snap.IsEmpty() {
			utils.LogErrorf("no environment data in %s. run azvnet fetch first.", viper.GetString("snapshot_path"))
			return
		}

		hubID := ""
		if hubSubscription != "" {
			sub, ok := snap.LookupSubscription(hubSubscription)
			if !ok {
				utils.LogErrorf("%s is not in the snapshot", hubSubscription)
				return
			}
			hubID = sub.ID
		}

		AutoValidate(snap, hubID, firewallIP)
	},
}

// AutoValidate writes the route issues found in scope.
func AutoValidate(snap *inventory.Snapshot, hubID, firewallIP string) {

	utils.LogStartCommand("auto-validate")
	utils.LogInfof(false, "hub subscription: %s, firewall ip: %s", utils.LogBlankValue(hubID), utils.LogBlankValue(firewallIP))

	issues := validate(snap, hubID, firewallIP, publicNextHop)
	if firewallIP == "" {
		utils.LogWarning("no --firewall-ip given. every VirtualAppliance route is reported.", true)
	}

	if len(issues) == 0 {
		utils.LogInfo("no route issues found.", true)
		utils.LogEndCommand("auto-validate")
		return
	}

	csvData := [][]string{{"subscription", "subscription_name", "route_table_name", "route_name", "description"}}
	for _, i := range issues {
		csvData = append(csvData, []string{i.Subscription, snap.SubscriptionName(i.Subscription), i.RouteTableName, i.RouteName, i.Description})
	}

	if outputFileName == "" {
		outputFileName = utils.FileName("auto-validate")
	}
	if err := utils.WriteOutput(csvData, nil, outputFileName); err != nil {
		utils.LogErrorf("writing output - %s", err)
		return
	}
	utils.LogInfof(true, "%d route issues found.", len(issues))
	utils.LogEndCommand("auto-validate")
}

func validate(snap *inventory.Snapshot, hubID, firewallIP string, public bool) []inventory.Issue {
	rules := []inventory.Rule{inventory.FirewallNextHopRule}
	if public {
		rules = []inventory.Rule{inventory.PublicNextHopRule, inventory.FirewallNextHopRule}
	}
	routeTables := snap.RouteTables
	if hubID != "" {
		routeTables = inventory.SpokeScope(snap, hubID).RouteTables
	}
	return inventory.NewValidator(rules...).Validate(routeTables, firewallIP)
}
