package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/netbeacon/azvnet/cmd/autovalidate"
	"github.com/netbeacon/azvnet/cmd/azurenetwork"
	"github.com/netbeacon/azvnet/cmd/cloudinventory"
	"github.com/netbeacon/azvnet/cmd/export"
	"github.com/netbeacon/azvnet/cmd/insights"
	"github.com/netbeacon/azvnet/cmd/narrative"
	"github.com/netbeacon/azvnet/cmd/report"
	"github.com/netbeacon/azvnet/cmd/routes"
	"github.com/netbeacon/azvnet/cmd/serve"
	"github.com/netbeacon/azvnet/cmd/setopenaikey"
	"github.com/netbeacon/azvnet/cmd/vnetpeeringreport"
	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd calls the CLI
var RootCmd = &cobra.Command{
	Use: "azvnet",
	Long: `
azvnet inventories Azure virtual networks and validates their routes and hub peerings.

Run "azvnet fetch" once (requires "az login") to capture the environment, then use the
reporting commands or "azvnet serve" for the dashboard.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !noLogFile {
			if _, err := utils.SetLogFile("azvnet.log"); err != nil {
				utils.LogWarningf(true, "could not open azvnet.log - %s. logging to stderr", err)
			}
		}

		if logJSON || viper.GetString("log_format") == "json" {
			utils.SetJSONFormat()
		}

		viper.Set("debug", debug)
		viper.Set("verbose", verbose)
		if debug {
			utils.SetLogLevel("debug")
		}
		if snapshotPath != "" {
			viper.Set("snapshot_path", snapshotPath)
		}

		// Output format
		if cmd.Flags().Changed("out") {
			outFormat = strings.ToLower(outFormat)
			if outFormat != "both" && outFormat != "stdout" && outFormat != "csv" {
				utils.LogError("invalid out - must be csv, stdout, or both.")
			}
			viper.Set("output_format", outFormat)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {

		cmd.Help()
	},
}

var debug, verbose, noLogFile, logJSON bool
var outFormat, snapshotPath string

// All subcommand flags are taken care of in their package's init.
// Root init sets up everything else - all usage templates, Viper, etc.
func init() {

	// Disable sorting
	cobra.EnableCommandSorting = false

	// Inventory
	RootCmd.AddCommand(azurenetwork.FetchCmd)
	RootCmd.AddCommand(export.ExportCmd)
	RootCmd.AddCommand(cloudinventory.CloudInventoryCmd)

	// Reporting
	RootCmd.AddCommand(routes.RoutesCmd)
	RootCmd.AddCommand(insights.InsightsCmd)
	RootCmd.AddCommand(vnetpeeringreport.VnetPeeringReportCmd)
	RootCmd.AddCommand(autovalidate.AutoValidateCmd)
	RootCmd.AddCommand(report.ReportCmd)

	// Narrative
	RootCmd.AddCommand(narrative.NarrativeCmd)
	RootCmd.AddCommand(narrative.ContinueCmd)
	RootCmd.AddCommand(setopenaikey.SetOpenAIKeyCmd)

	// Dashboard
	RootCmd.AddCommand(serve.ServeCmd)

	// Version Commands
	RootCmd.AddCommand(versionCmd)

	// Set the usage templates
	for _, c := range RootCmd.Commands() {
		c.SetUsageTemplate(utils.SubCmdTemplate())
	}
	RootCmd.SetUsageTemplate(utils.RootTemplate())

	// .env is optional; values already in the environment win
	godotenv.Load()

	// Setup Viper
	viper.SetConfigType("yaml")
	if os.Getenv("AZVNET_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv("AZVNET_CONFIG"))
	} else {
		viper.SetConfigFile("./azvnet.yaml")
	}
	viper.SetEnvPrefix("azvnet")
	viper.AutomaticEnv()
	viper.SetDefault("snapshot_path", inventory.DefaultPath)
	viper.SetDefault("listen", "127.0.0.1:5000")
	viper.SetDefault("output_format", "stdout")
	viper.SetDefault("max_entries_for_stdout", 100)
	viper.SetDefault("fetch_concurrency", 4)
	viper.SetDefault("narrative_dir", "narratives")
	viper.SetDefault("openai_model", "gpt-4o")
	viper.BindEnv("azure_tenant_id", "AZURE_TENANT_ID")
	viper.BindEnv("azure_client_id", "AZURE_CLIENT_ID")
	viper.BindEnv("azure_client_secret", "AZURE_CLIENT_SECRET")
	viper.ReadInConfig()

	// Persistent flags that will be passed into root command pre-run.
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug level logging for troubleshooting.")
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "When debug is enabled, include raw Resource Manager responses. This makes azvnet.log increase in size significantly.")
	RootCmd.PersistentFlags().StringVar(&outFormat, "out", "stdout", "Output format. 3 options: csv, stdout, both")
	RootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "Snapshot file to read and write. Default is snapshot_path from azvnet.yaml or "+inventory.DefaultPath+".")
	RootCmd.PersistentFlags().BoolVar(&noLogFile, "no-log-file", false, "Log to stderr instead of azvnet.log.")
	RootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write azvnet.log entries as JSON. Same as log_format: json in azvnet.yaml.")

	RootCmd.Flags().SortFlags = false

}

// Execute is called by the CLI main function to initiate the Cobra application
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// versionCmd returns the version of azvnet
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print azvnet version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Version %s\r\n", utils.GetVersion())
		fmt.Printf("Previous commit: %s \r\n", utils.GetCommit())
	},
}
