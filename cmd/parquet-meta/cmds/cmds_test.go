package cmds

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fraugster/parquetmeta"
	"github.com/parquet-go/parquet-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testRecord struct {
	ID    int64   `parquet:"id"`
	Name  string  `parquet:"name"`
	Score float64 `parquet:"score"`
}

func writeTestFile(t *testing.T, name string, rowGroups, rowsPerGroup int) string {
	t.Helper()
	address := filepath.Join(t.TempDir(), name)
	fl, err := os.Create(address)
	require.NoError(t, err)
	defer fl.Close()

	w := parquet.NewGenericWriter[testRecord](fl,
		parquet.KeyValueMetadata("origin", "parquet-meta"),
		parquet.KeyValueMetadata("file", name),
	)
	id := int64(0)
	for g := 0; g < rowGroups; g++ {
		rows := make([]testRecord, rowsPerGroup)
		for i := range rows {
			id++
			rows[i] = testRecord{ID: id, Name: strings.Repeat("x", int(id)), Score: float64(id) * 1.5}
		}
		_, err := w.Write(rows)
		require.NoError(t, err)
		require.NoError(t, w.Flush())
	}
	require.NoError(t, w.Close())

	return address
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	out, logs := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(logs)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	t.Logf("logs:\n%s", logs)
	return out.String(), err
}

func TestRowCount(t *testing.T) {
	address := writeTestFile(t, "rows.parquet", 2, 3)

	out, err := runCmd(t, "rowcount", address)
	require.NoError(t, err)
	require.Equal(t, "Total RowCount: 6\n", out)

	_, err = runCmd(t, "rowcount")
	require.Error(t, err)
}

func TestKeyValue(t *testing.T) {
	address := writeTestFile(t, "kv.parquet", 1, 1)

	out, err := runCmd(t, "kv", address)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Contains(t, lines, "origin = parquet-meta")
	require.Contains(t, lines, "file = kv.parquet")
}

func TestSchema(t *testing.T) {
	address := writeTestFile(t, "schema.parquet", 1, 2)

	out, err := runCmd(t, "schema", address)
	require.NoError(t, err)
	require.Contains(t, out, "required int64 id")
	require.Contains(t, out, "required double score")

	_, err = parquetmeta.ParseSchemaDefinition(out)
	require.NoError(t, err)

	defFile := filepath.Join(t.TempDir(), "schema.def")
	require.NoError(t, os.WriteFile(defFile, []byte(out), 0o644))

	out, err = runCmd(t, "schema", "--expect", defFile, address)
	require.NoError(t, err)
	require.Empty(t, out)

	require.NoError(t, os.WriteFile(defFile, []byte("message x {\n  required int32 id;\n}\n"), 0o644))
	_, err = runCmd(t, "schema", "--expect", defFile, address)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not match")

	require.NoError(t, os.WriteFile(defFile, []byte("message {"), 0o644))
	_, err = runCmd(t, "schema", "--expect", defFile, address)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid schema definition")
}

func TestMetaFormats(t *testing.T) {
	first := writeTestFile(t, "first.parquet", 1, 4)
	second := writeTestFile(t, "second.parquet", 3, 2)

	out, err := runCmd(t, "meta", "--format", "json", first, second)
	require.NoError(t, err)

	var files []struct {
		File     string `json:"file"`
		MetaData struct {
			NumRows   int64             `json:"num_rows"`
			RowGroups []json.RawMessage `json:"row_groups"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 2)
	require.Equal(t, first, files[0].File)
	require.Equal(t, int64(4), files[0].MetaData.NumRows)
	require.Len(t, files[0].MetaData.RowGroups, 1)
	require.Equal(t, second, files[1].File)
	require.Equal(t, int64(6), files[1].MetaData.NumRows)
	require.Len(t, files[1].MetaData.RowGroups, 3)

	out, err = runCmd(t, "meta", "-f", "yaml", second)
	require.NoError(t, err)

	var docs []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	require.Equal(t, second, docs[0]["file"])

	out, err = runCmd(t, "meta", first, second)
	require.NoError(t, err)
	require.Less(t, strings.Index(out, first), strings.Index(out, second))
	require.Contains(t, out, "origin = parquet-meta")
	require.Contains(t, out, ".score:")
	require.Contains(t, out, "R:0 D:0")

	_, err = runCmd(t, "meta", "--format", "xml", first)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown format")
}

func TestRowGroups(t *testing.T) {
	address := writeTestFile(t, "groups.parquet", 2, 5)

	out, err := runCmd(t, "rowgroups", address)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "10 rows in 2 row groups\n"), out)
	require.Contains(t, out, "COLUMN")
	require.Contains(t, out, "score")
	require.Contains(t, out, "BYTE_ARRAY")
	require.Contains(t, out, "DOUBLE")
}

func TestReadErrors(t *testing.T) {
	good := writeTestFile(t, "good.parquet", 1, 1)
	bad := filepath.Join(t.TempDir(), "bad.parquet")
	require.NoError(t, os.WriteFile(bad, []byte("PAR1 this is not parquet"), 0o644))

	_, err := runCmd(t, "meta", good, bad)
	require.Error(t, err)
	require.ErrorIs(t, err, parquetmeta.ErrFormat)
	require.Contains(t, err.Error(), bad)

	_, err = runCmd(t, "rowcount", filepath.Join(t.TempDir(), "missing.parquet"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = runCmd(t, "--max-footer-size", "10", "rowcount", good)
	require.ErrorIs(t, err, parquetmeta.ErrFormat)

	_, err = runCmd(t, "--max-footer-size", "0", "rowcount", good)
	require.NoError(t, err)
}
