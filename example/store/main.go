package main

import (
	"context"
	"flag"
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/gtarray"
	"go.uber.org/zap"
)

func main() {
	dbPath := flag.String("db", "", "SQLite genotype store to open or create")
	importPath := flag.String("gtca", "", "Optional .gtca column file (local or gs://) to import into the store")
	get := flag.String("get", "", "Optional column name to print")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if *dbPath == "" {
		flag.PrintDefaults()
		log.Fatal("No store path given")
	}

	ctx := context.Background()

	store, err := gtarray.OpenStore(expandHome(*dbPath), gtarray.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
	log.Infow("Opened store", "path", *dbPath, "driver", gtarray.WhichSQLiteDriver())

	if *importPath != "" {
		f, err := gtarray.OpenContext(ctx, expandHome(*importPath))
		if err != nil {
			log.Fatal(err)
		}
		log.Infow("Opened column file", "columns", f.NColumns, "samples", f.NSamples,
			"layout", f.FlagLayout.String(), "compression", f.FlagCompression.String())

		frame, err := gtarray.ReadFrame(f)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
		if err := store.PutFrame(ctx, frame); err != nil {
			log.Fatal(err)
		}
	}

	index, err := store.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for i, row := range index {
		if i%30 == 0 {
			fmt.Printf("%d) %+v\n", i, row)
		}
	}
	log.Infow("Saw stored columns", "columns", len(index))

	if *get != "" {
		a, err := store.Get(ctx, *get)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(a.DType().Name())
		fmt.Println(strings.Join(a.Strings(), " "))
		fmt.Printf("MAF=%.4f HWE=%.4g\n", a.MAF(), a.HWEPValue())
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	usr, err := user.Current()
	if err != nil {
		return path
	}
	return filepath.Join(usr.HomeDir, path[2:])
}
