package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Declare local global variables
var format, outputFileName string

func init() {
	ExportCmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml.")
	ExportCmd.Flags().StringVar(&outputFileName, "output-file", "", "optionally write to a file instead of stdout.")
	ExportCmd.Flags().SortFlags = false
}

// ExportCmd prints the snapshot
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the snapshot as indented JSON or YAML.",
	Long: `
Print the snapshot as indented JSON or YAML. The --out flag is ignored for this command.`,
	Run: func(cmd *cobra.Command, args []string) {

		snap := inventory.Load(viper.GetString("snapshot_path"))
		if snap.IsEmpty() {
			utils.LogErrorf("no environment data in %s. run azvnet fetch first.", viper.GetString("snapshot_path"))
			return
		}

		out, err := Encode(snap, format)
		if err != nil {
			utils.LogErrorf("exporting snapshot - %s", err)
			return
		}

		if outputFileName == "" {
			os.Stdout.Write(out)
			return
		}
		if err := os.WriteFile(outputFileName, out, 0644); err != nil {
			utils.LogErrorf("writing %s - %s", outputFileName, err)
			return
		}
		utils.LogInfof(true, "snapshot exported to %s", outputFileName)
	},
}

// Encode renders the snapshot in the given format. YAML keeps the on-disk JSON key names.
func Encode(snap *inventory.Snapshot, format string) ([]byte, error) {
	data, err := inventory.Encode(snap)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "json":
		return append(data, '\n'), nil
	case "yaml", "yml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("converting to yaml - %w", err)
		}
		// JSON decodes as flow style with quoted scalars; reset to block style with plain scalars.
		clearStyle(&doc)
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return nil, fmt.Errorf("converting to yaml - %w", err)
		}
		enc.Close()
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("invalid format %q - must be json or yaml", format)
	}
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
