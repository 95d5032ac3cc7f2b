package cmds

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fraugster/parquetmeta"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var metaFormat string

func init() {
	metaCmd.Flags().StringVarP(&metaFormat, "format", "f", "text", "Output format: text, json or yaml")
	rootCmd.AddCommand(metaCmd)
}

var metaCmd = &cobra.Command{
	Use:   "meta file-name.parquet...",
	Short: "Print the metadata of one or more parquet files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch metaFormat {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("unknown format %q", metaFormat)
		}

		metas, err := readMetas(cmd.Context(), args)
		if err != nil {
			return err
		}

		return printMetas(cmd.OutOrStdout(), metaFormat, args, metas)
	},
}

type fileMeta struct {
	File     string                   `json:"file" yaml:"file"`
	MetaData *parquetmeta.FileMetaData `json:"metadata" yaml:"metadata"`
}

func printMetas(w io.Writer, format string, addresses []string, metas []*parquetmeta.FileMetaData) error {
	files := make([]fileMeta, len(metas))
	for i := range metas {
		files[i] = fileMeta{File: addresses[i], MetaData: metas[i]}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(files); err != nil {
			return err
		}
		return enc.Close()
	}

	for i, f := range files {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		if err := metaFile(w, f.File, f.MetaData); err != nil {
			return err
		}
	}
	return nil
}
