package narrative

import (
	"os"
	"time"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/narrative"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mode string

func init() {
	NarrativeCmd.Flags().StringVarP(&mode, "mode", "m", string(narrative.ModeReport), "report for a structured summary or opinion for an architectural review.")
	NarrativeCmd.Flags().SortFlags = false
}

// NarrativeCmd asks a chat model to describe the environment
var NarrativeCmd = &cobra.Command{
	Use:   "narrative",
	Short: "Write a markdown narrative of the environment with an OpenAI chat model.",
	Long: `
Write a markdown narrative of the environment with an OpenAI chat model.

Only the first entry of each collection in the snapshot is sent. The key is read from OPENAI_API_KEY, then openai_api_key in azvnet.yaml, then prompted for.
The narrative is saved to narrative_dir as <mode>-<timestamp>.md.`,
	Run: func(cmd *cobra.Command, args []string) {

		m, err := narrative.ParseMode(mode)
		if err != nil {
			utils.LogErrorf("%s", err)
			return
		}

		snap := inventory.Load(viper.GetString("snapshot_path"))
		if snap.IsEmpty() {
			utils.LogErrorf("no environment data in %s. run azvnet fetch first.", viper.GetString("snapshot_path"))
			return
		}

		client, err := newClient()
		if err != nil {
			utils.LogErrorf("getting openai api key - %s", err)
			return
		}

		Narrative(cmd, narrative.NewGenerator(client), snap, m)
	},
}

// Narrative generates and saves one narrative.
func Narrative(cmd *cobra.Command, gen *narrative.Generator, snap *inventory.Snapshot, m narrative.Mode) {

	utils.LogStartCommand("narrative")

	text, err := gen.Generate(cmd.Context(), snap, m)
	if err != nil {
		utils.LogErrorf("generating narrative - %s", err)
		return
	}

	path, err := narrative.Save(viper.GetString("narrative_dir"), m, text, time.Now())
	if err != nil {
		utils.LogErrorf("saving narrative - %s", err)
		return
	}

	if narrative.NeedsContinuation(text) {
		utils.LogWarningf(true, "the narrative looks truncated. run azvnet narrative-continue %s", path)
	}
	utils.LogInfof(true, "narrative saved to %s", path)
	utils.LogEndCommand("narrative")
}

// ContinueCmd finishes a truncated narrative file
var ContinueCmd = &cobra.Command{
	Use:   "narrative-continue [file]",
	Short: "Finish a narrative that stopped mid fenced block.",
	Long: `
Finish a narrative that stopped mid fenced block.

The last 2000 characters are sent to the model and the continuation is inserted before the closing fence, or a closing fence is added.
Files that do not look truncated are left unchanged.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {

		utils.LogStartCommand("narrative-continue")

		path := args[0]
		b, err := os.ReadFile(path)
		if err != nil {
			utils.LogErrorf("reading %s - %s", path, err)
			return
		}

		text := string(b)
		if !narrative.NeedsContinuation(text) {
			utils.LogInfof(true, "%s does not look truncated.", path)
			utils.LogEndCommand("narrative-continue")
			return
		}

		client, err := newClient()
		if err != nil {
			utils.LogErrorf("getting openai api key - %s", err)
			return
		}

		full, err := narrative.Continue(cmd.Context(), client, text)
		if err != nil {
			utils.LogErrorf("continuing narrative - %s", err)
			return
		}
		if err := os.WriteFile(path, []byte(full), 0644); err != nil {
			utils.LogErrorf("writing %s - %s", path, err)
			return
		}

		utils.LogInfof(true, "%s updated with %d characters.", path, len(full)-len(text))
		utils.LogEndCommand("narrative-continue")
	},
}

func newClient() (*narrative.Client, error) {
	key, err := narrative.ResolveAPIKey(viper.GetString("openai_api_key"))
	if err != nil {
		return nil, err
	}
	return narrative.NewClient(key, viper.GetString("openai_model"), viper.GetString("openai_base_url")), nil
}
