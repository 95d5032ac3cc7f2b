package cmds

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(kvCmd)
}

var kvCmd = &cobra.Command{
	Use:   "kv file-name.parquet",
	Short: "Print the key/value metadata of the parquet file in file order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := readMeta(args[0])
		if err != nil {
			return err
		}

		for _, kv := range meta.KeyValueMetadata {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), formatKeyValue(kv)); err != nil {
				return err
			}
		}
		return nil
	},
}
