// Package main provides a command-line utility to inspect UDF container
// files: it walks the dataset tree from the root and prints each table's
// name, shape, byte size, and compression id.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/scigolib/udf"
	"github.com/scigolib/udf/internal/core"
)

func main() {
	pathFlag := flag.String("path", "", "dotted path to start the walk from (default: file root)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: udfcat [flags] <file.udf>")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	filename := args[0]
	f, err := udf.Open(filename)
	if err != nil {
		log.Fatalf("failed to open %s: %v", filename, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close %s: %v", filename, err)
		}
	}()

	fmt.Printf("%s: id=%q root=%+v\n", filename, f.ID(), f.Root())

	root := f.Root()
	if *pathFlag != "" {
		root, err = f.Resolve(f.Root(), *pathFlag)
		if err != nil {
			log.Fatalf("failed to resolve path %q: %v", *pathFlag, err)
		}
	}

	err = udf.Walk(f, root, func(path string, ds *core.Dataset) error {
		if path == "" {
			path = "/"
		}
		fmt.Printf("%s (%d tables)\n", path, ds.Len())

		ref := ds.AsRef()
		for i := range ref.Tables {
			table := &ref.Tables[i]
			name, err := ref.Names.Lookup(table.KeyName)
			if err != nil {
				name = fmt.Sprintf("#%08x", table.KeyName)
			}
			shape := core.FromTypeInfo(table.TypeInfo, table.DataShape)
			fmt.Printf("  %-24s shape=%-12s bytes=%d compress=%#04x\n",
				name, shape, table.DataSize, table.CompressInfo)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("walk failed: %v", err)
	}
}
