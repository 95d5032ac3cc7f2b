package main

import "github.com/fraugster/parquetmeta/cmd/parquet-meta/cmds"

func main() {
	cmds.Execute()
}
