package cmds

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fraugster/parquetmeta"
	"golang.org/x/sync/errgroup"
)

func readMeta(address string) (*parquetmeta.FileMetaData, error) {
	data, err := os.ReadFile(address)
	if err != nil {
		return nil, fmt.Errorf("can not open the file: %w", err)
	}

	meta, err := parquetmeta.ReadParquet(data, parquetmeta.WithMaxFooterSize(cfg.MaxFooterSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read the parquet footer of %s: %w", address, err)
	}
	slog.Debug("Read parquet footer", "file", address, "size", len(data), "rowGroups", len(meta.RowGroups))

	return meta, nil
}

// readMetas reads the footers of all files with at most cfg.Parallel files
// in flight. The result is in the order of addresses.
func readMetas(ctx context.Context, addresses []string) ([]*parquetmeta.FileMetaData, error) {
	metas := make([]*parquetmeta.FileMetaData, len(addresses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for i, address := range addresses {
		i, address := i, address
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			meta, err := readMeta(address)
			if err != nil {
				return err
			}
			metas[i] = meta
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return metas, nil
}

func metaFile(w io.Writer, address string, meta *parquetmeta.FileMetaData) error {
	writer := tabwriter.NewWriter(w, 8, 8, 0, '\t', 0)

	_, _ = fmt.Fprintf(writer, "file:\t\t%s\n", address)
	_, _ = fmt.Fprintf(writer, "version:\t\t%d\n", meta.Version)
	_, _ = fmt.Fprintf(writer, "rows:\t\t%d\n", meta.NumRows)
	_, _ = fmt.Fprintf(writer, "row groups:\t\t%d\n", len(meta.RowGroups))
	if meta.CreatedBy != nil {
		_, _ = fmt.Fprintf(writer, "created by:\t\t%s\n", *meta.CreatedBy)
	}
	for _, kv := range meta.KeyValueMetadata {
		_, _ = fmt.Fprintf(writer, "extra:\t\t%s\n", formatKeyValue(kv))
	}
	_, _ = fmt.Fprintln(writer)

	_, _ = fmt.Fprintf(writer, "%s:\t\t%s F:%d\n", meta.Schema.Root.Name, meta.Schema.Root.Repetition, len(meta.Schema.Root.Children))
	printFlatSchema(writer, meta.Schema.Root.Children, 1)

	return writer.Flush()
}

func printFlatSchema(w io.Writer, cols []*parquetmeta.SchemaNode, lvl int) {
	dot := strings.Repeat(".", lvl)
	for _, column := range cols {
		_, _ = fmt.Fprintf(w, "%s%s:\t\t", dot, column.Name)
		_, _ = fmt.Fprintf(w, "%s ", column.Repetition)
		if column.IsLeaf() {
			_, _ = fmt.Fprintf(w, "%s", column.Type)
			if lt := column.LogicalType(); lt != nil {
				_, _ = fmt.Fprintf(w, " %s", lt)
			}
			_, _ = fmt.Fprintf(w, " R:%d D:%d\n", column.MaxRepetitionLevel, column.MaxDefinitionLevel)
			continue
		}
		_, _ = fmt.Fprintf(w, "F:%d\n", len(column.Children))
		printFlatSchema(w, column.Children, lvl+1)
	}
}

func formatKeyValue(kv parquetmeta.KeyValue) string {
	if kv.Value == nil {
		return kv.Key
	}
	return kv.Key + " = " + *kv.Value
}
