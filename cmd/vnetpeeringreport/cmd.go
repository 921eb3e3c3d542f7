package vnetpeeringreport

import (
	"strconv"
	"strings"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Declare local global variables
var outputFileName, subscription, vnetName string
var hub, spoke bool

func init() {
	VnetPeeringReportCmd.Flags().StringVarP(&subscription, "subscription", "s", "", "subscription id or display name that owns the virtual network.")
	VnetPeeringReportCmd.Flags().StringVar(&vnetName, "vnet", "", "virtual network name.")
	VnetPeeringReportCmd.Flags().BoolVar(&hub, "hub", false, "check the peerings against hub expectations.")
	VnetPeeringReportCmd.Flags().BoolVar(&spoke, "spoke", false, "check the peerings against spoke expectations.")
	VnetPeeringReportCmd.Flags().StringVar(&outputFileName, "output-file", "", "optionally specify the name of the output file location. default is current location with a timestamped filename.")
	VnetPeeringReportCmd.MarkFlagRequired("subscription")
	VnetPeeringReportCmd.MarkFlagRequired("vnet")
	VnetPeeringReportCmd.MarkFlagsMutuallyExclusive("hub", "spoke")
	VnetPeeringReportCmd.Flags().SortFlags = false
}

// VnetPeeringReportCmd lists the peerings of one virtual network
var VnetPeeringReportCmd = &cobra.Command{
	Use:     "hub-peerings",
	Aliases: []string{"vnet-peering-report"},
	Short:   "List the peerings of a virtual network and check them against hub or spoke expectations.",
	Long: `
List the peerings of a virtual network with their access, forwarding, gateway and state flags.

Every peering is checked for virtual network access and a Connected state. With --hub, peerings must allow gateway transit and not use remote gateways.
With --spoke, peerings must allow forwarded traffic and not allow gateway transit.`,
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

		role := inventory.RoleNone
		if hub {
			role = inventory.RoleHub
		} else if spoke {
			role = inventory.RoleSpoke
		}

		VnetPeeringReport(snap, sub, role)
	},
}

// VnetPeeringReport writes the peering status rows.
func VnetPeeringReport(snap *inventory.Snapshot, sub inventory.Subscription, role inventory.PeeringRole) {

	utils.LogStartCommand("hub-peerings")

	statuses := inventory.HubPeerings(snap, sub.ID, vnetName, role)

	// If we have no peerings, exit
	if len(statuses) == 0 {
		utils.LogInfof(true, "no vnet peerings found on %s in %s.", vnetName, sub.DisplayName)
		utils.LogEndCommand("hub-peerings")
		return
	}

	csvData := table(statuses)
	flagged := 0
	for _, s := range statuses {
		if len(s.Findings) > 0 {
			flagged++
		}
	}

	if outputFileName == "" {
		outputFileName = utils.FileName("hub-peerings")
	}
	if err := utils.WriteOutput(csvData, nil, outputFileName); err != nil {
		utils.LogErrorf("writing output - %s", err)
		return
	}
	utils.LogInfof(true, "%d vnet peerings checked. %d with findings.", len(statuses), flagged)
	utils.LogEndCommand("hub-peerings")
}

func table(statuses []inventory.PeeringStatus) [][]string {
	csvData := [][]string{{"peering_name", "allow_vnet_access", "allow_forwarded_traffic", "use_remote_gateways", "allow_gateway_transit", "peering_state", "remote_virtual_network", "findings"}}
	for _, s := range statuses {
		csvData = append(csvData, []string{
			s.PeeringName,
			strconv.FormatBool(s.AllowVNetAccess),
			strconv.FormatBool(s.AllowForwardedTraffic),
			strconv.FormatBool(s.UseRemoteGateways),
			strconv.FormatBool(s.AllowGatewayTransit),
			s.PeeringState,
			s.RemoteVirtualNetwork,
			strings.Join(s.Findings, "; "),
		})
	}
	return csvData
}
