package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a set's tree structure as JSON or MessagePack",
	Long: `Write the tree of a set, including every node's split dimension.

Each node is encoded as {"left", "value", "dimension", "right"}, with empty
children omitted.

Example:
  kdtree export --set cities
  kdtree export --format msgpack --output cities.kdt`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json or msgpack")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	store, tree, err := loadTree()
	if err != nil {
		return err
	}
	defer store.Close()

	var data []byte
	switch exportFormat {
	case "json":
		data, err = json.MarshalIndent(tree, "", "  ")
		data = append(data, '\n')
	case "msgpack":
		data, err = msgpack.Marshal(tree)
	default:
		return fmt.Errorf("unknown format %q, expected json or msgpack", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
