package report

import (
	"os"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/report"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Declare local global variables
var outputFileName, hubSubscription, firewallIP string

func init() {
	ReportCmd.Flags().StringVar(&firewallIP, "firewall-ip", "", "expected firewall next hop. adds the route issues section.")
	ReportCmd.Flags().StringVar(&hubSubscription, "hub-subscription", "", "hub subscription id or display name. limits the route issues section to spokes.")
	ReportCmd.Flags().StringVar(&outputFileName, "output-file", "network_report.pdf", "name of the PDF file.")
	ReportCmd.Flags().SortFlags = false
}

// ReportCmd writes the PDF network report
var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Create a PDF report of insights and subnet routes for every subscription.",
	Long: `
Create a PDF report with the insight counts and the subnet route view of every subscription.

When --firewall-ip is set the report ends with the route issues found by auto-validate.
The --out flag is ignored for this command.`,
	Run: func(cmd *cobra.Command, args []string) {

		snapshotPath := viper.GetString("snapshot_path")
		snap := inventory.Load(snapshotPath)
		if snap.IsEmpty() {
			utils.LogErrorf("no environment data in %s. run azvnet fetch first.", snapshotPath)
			return
		}

		opts := report.Options{SnapshotPath: snapshotPath, FirewallIP: firewallIP}
		if hubSubscription != "" {
			sub, ok := snap.LookupSubscription(hubSubscription)
			if !ok {
				utils.LogErrorf("%s is not in the snapshot", hubSubscription)
				return
			}
			opts.HubSubscriptionID = sub.ID
		}

		Report(snap, opts, outputFileName)
	},
}

// Report renders the PDF to outputFile.
func Report(snap *inventory.Snapshot, opts report.Options, outputFile string) {

	utils.LogStartCommand("report")

	data := report.Build(snap, opts)
	pdf, err := report.NewPDFGenerator().Generate(data)
	if err != nil {
		utils.LogErrorf("generating report - %s", err)
		return
	}
	if err := os.WriteFile(outputFile, pdf, 0644); err != nil {
		utils.LogErrorf("writing %s - %s", outputFile, err)
		return
	}

	utils.WithFields(map[string]interface{}{"report_id": data.ID, "issues": len(data.Issues)}).Info("report generated")
	utils.LogInfof(true, "report written to %s", outputFile)
	utils.LogEndCommand("report")
}
