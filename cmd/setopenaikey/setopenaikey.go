package setopenaikey

import (
	"os"

	"github.com/netbeacon/azvnet/narrative"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SetOpenAIKeyCmd stores the OpenAI key in azvnet.yaml
var SetOpenAIKeyCmd = &cobra.Command{
	Use:   "set-openai-key",
	Short: "Prompt for an OpenAI API key and store it in azvnet.yaml.",
	Long: `
Prompt for an OpenAI API key and store it as openai_api_key in azvnet.yaml (or the file in AZVNET_CONFIG).

The file is written with 0600 permissions. OPENAI_API_KEY still takes precedence when it is set.`,
	Run: func(cmd *cobra.Command, args []string) {

		utils.LogStartCommand("set-openai-key")

		key, err := narrative.PromptAPIKey(os.Stdout)
		if err != nil {
			utils.LogErrorf("reading key - %s", err)
			return
		}

		viper.Set("openai_api_key", key)
		if err := viper.WriteConfig(); err != nil {
			utils.LogErrorf("writing %s - %s", viper.ConfigFileUsed(), err)
			return
		}
		if err := os.Chmod(viper.ConfigFileUsed(), 0600); err != nil {
			utils.LogWarningf(true, "could not restrict permissions on %s - %s", viper.ConfigFileUsed(), err)
		}

		utils.LogInfof(true, "openai key saved to %s", viper.ConfigFileUsed())
		utils.LogEndCommand("set-openai-key")
	},
}
