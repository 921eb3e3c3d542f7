package serve

import (
	"context"

	"github.com/netbeacon/azvnet/azure"
	"github.com/netbeacon/azvnet/cmd/azurenetwork"
	"github.com/netbeacon/azvnet/dashboard"
	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/narrative"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listen string
var noWatch, noFetch bool

func init() {
	ServeCmd.Flags().StringVar(&listen, "listen", "", "address to listen on. default is listen from azvnet.yaml (127.0.0.1:5000).")
	ServeCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the snapshot when the file changes.")
	ServeCmd.Flags().BoolVar(&noFetch, "no-fetch", false, "disable the load environment button.")
	ServeCmd.Flags().SortFlags = false
}

// ServeCmd runs the dashboard
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard over the snapshot.",
	Long: `
Run the web dashboard over the snapshot.

The load environment button fetches with the Azure CLI credential. Narratives are enabled when OPENAI_API_KEY or openai_api_key is set.
Prometheus metrics are exposed at /metrics. Stop with Ctrl-C.`,
	Run: func(cmd *cobra.Command, args []string) {
		if listen == "" {
			listen = viper.GetString("listen")
		}
		Serve(cmd.Context(), listen)
	},
}

// cliFetcher authenticates on every fetch so a dashboard started before "az login" still works.
type cliFetcher struct {
	cfg azure.Config
}

func (c cliFetcher) Fetch(ctx context.Context) (*inventory.Snapshot, error) {
	f, err := azure.NewFetcher(c.cfg)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx)
}

// Serve blocks until ctx is done. The root command cancels ctx on SIGINT or SIGTERM.
func Serve(ctx context.Context, addr string) {

	utils.LogStartCommand("serve")

	store := inventory.NewStore(viper.GetString("snapshot_path"))
	if store.Current().IsEmpty() {
		utils.LogInfof(true, "no environment data in %s yet. use load environment in the dashboard or run azvnet fetch.", store.Path())
	}
	if !noWatch {
		go func() {
			if err := store.Watch(ctx); err != nil {
				utils.LogWarningf(true, "snapshot watcher stopped - %s", err)
			}
		}()
	}

	opts := dashboard.Options{NarrativeDir: viper.GetString("narrative_dir")}
	if !noFetch {
		opts.Fetcher = cliFetcher{cfg: azurenetwork.Config()}
	}
	if key := narrative.ConfiguredAPIKey(viper.GetString("openai_api_key")); key != "" {
		client := narrative.NewClient(key, viper.GetString("openai_model"), viper.GetString("openai_base_url"))
		opts.Narrator = narrative.NewGenerator(client)
	} else {
		utils.LogInfo("no openai key configured. narratives are disabled.", false)
	}

	srv, err := dashboard.New(store, opts)
	if err != nil {
		utils.LogErrorf("building dashboard - %s", err)
		return
	}

	utils.LogInfof(true, "dashboard on http://%s", addr)
	if err := srv.Run(ctx, addr); err != nil {
		utils.LogErrorf("running dashboard - %s", err)
		return
	}
	utils.LogEndCommand("serve")
}
