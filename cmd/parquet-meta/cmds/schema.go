package cmds

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fraugster/parquetmeta"
	"github.com/spf13/cobra"
)

var expectSchemaFile string

func init() {
	schemaCmd.Flags().StringVar(&expectSchemaFile, "expect", "", "Schema definition file the file's schema must match")
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema file-name.parquet",
	Short: "Print the parquet file schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := readMeta(args[0])
		if err != nil {
			return err
		}

		if expectSchemaFile == "" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), meta.Schema)
			return err
		}

		return checkSchema(meta.Schema, expectSchemaFile)
	},
}

func checkSchema(actual *parquetmeta.Schema, defFile string) error {
	def, err := os.ReadFile(defFile)
	if err != nil {
		return fmt.Errorf("can not open the schema definition: %w", err)
	}

	expected, err := parquetmeta.ParseSchemaDefinition(string(def))
	if err != nil {
		return fmt.Errorf("invalid schema definition %s: %w", defFile, err)
	}

	if expected.String() != actual.String() {
		slog.Debug("Schema mismatch", "expected", expected.String(), "actual", actual.String())
		return fmt.Errorf("schema does not match %s", defFile)
	}

	slog.Info("Schema matches", "definition", defFile)
	return nil
}
