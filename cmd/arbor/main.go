package main

import (
	"fmt"
	"os"

	"github.com/arborcli/arbor/internal/cli"
	"github.com/arborcli/arbor/internal/config"
	"github.com/arborcli/arbor/internal/db"
	"github.com/arborcli/arbor/internal/repository"
	"github.com/arborcli/arbor/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config file: env override or ~/.arbor/config.yaml. A missing
	// file falls back to defaults.
	cfgPath := os.Getenv("ARBOR_CONFIG")
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// ARBOR_DB wins over the config file.
	dbPath := os.Getenv("ARBOR_DB")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	projectRepo := repository.NewSQLiteProjectRepo(database)
	nodeRepo := repository.NewSQLiteNodeRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Projects: service.NewProjectService(projectRepo),
		Nodes:    service.NewNodeService(nodeRepo),
		Import:   service.NewImportService(uow),
		Layout:   cfg.Layout,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
