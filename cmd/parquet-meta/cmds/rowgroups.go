package cmds

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fraugster/parquetmeta"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rowGroupsCmd)
}

var rowGroupsCmd = &cobra.Command{
	Use:   "rowgroups file-name.parquet",
	Short: "Print the row groups and column chunks of the parquet file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := readMeta(args[0])
		if err != nil {
			return err
		}

		return printRowGroups(cmd.OutOrStdout(), meta)
	},
}

func printRowGroups(w io.Writer, meta *parquetmeta.FileMetaData) error {
	if _, err := fmt.Fprintf(w, "%s rows in %d row groups\n", humanize.Comma(meta.NumRows), len(meta.RowGroups)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Group", "Column", "Type", "Codec", "Encodings", "Values", "Offset", "Compressed", "Uncompressed", "Min", "Max"})
	table.SetAutoWrapText(false)

	cols := meta.Schema.Columns()
	for rgIdx, rg := range meta.RowGroups {
		for colIdx, chunk := range rg.Columns {
			row := []string{strconv.Itoa(rgIdx), cols[colIdx].FlatName()}
			md := chunk.MetaData
			if md == nil {
				row = append(row, "", "", "", "", strconv.FormatInt(chunk.FileOffset, 10), "", "", "", "")
				table.Append(row)
				continue
			}

			lo, hi, err := md.MinMax()
			if err != nil {
				slog.Warn("Skipping malformed statistics", "rowGroup", rgIdx, "column", cols[colIdx].FlatName(), "error", err)
				lo, hi = nil, nil
			}

			encodings := make([]string, len(md.Encodings))
			for i, e := range md.Encodings {
				encodings[i] = e.String()
			}

			row = append(row,
				md.Type.String(),
				md.Codec.String(),
				strings.Join(encodings, ","),
				humanize.Comma(md.NumValues),
				strconv.FormatInt(md.StartOffset(), 10),
				humanize.IBytes(uint64(md.TotalCompressedSize)),
				humanize.IBytes(uint64(md.TotalUncompressedSize)),
				formatStat(md.Type, lo),
				formatStat(md.Type, hi),
			)
			table.Append(row)
		}
	}

	table.Render()
	return nil
}

const maxStatWidth = 32

func formatStat(t parquetmeta.Type, v interface{}) string {
	var s string
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		switch {
		case t == parquetmeta.TypeInt96 && len(v) == 12:
			s = parquetmeta.Int96ToTime([12]byte(v)).Format(time.RFC3339Nano)
		case utf8.Valid(v):
			s = string(v)
		default:
			s = fmt.Sprintf("0x%x", v)
		}
	default:
		s = fmt.Sprint(v)
	}

	if utf8.RuneCountInString(s) > maxStatWidth {
		s = string([]rune(s)[:maxStatWidth-3]) + "..."
	}
	return s
}
