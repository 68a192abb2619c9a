package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vessel-match-service/internal/adapters/repositories"
	"vessel-match-service/internal/app"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the offer database",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the offers and port_anchors tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlDB, err := app.OpenSQL(cfg.Store)
		if err != nil {
			return err
		}
		if sqlDB == nil {
			return eris.Errorf("db init: store driver %q has no schema", cfg.Store.Driver)
		}
		defer sqlDB.Close()

		if cfg.Store.Driver == "postgres" {
			err = repositories.InitPostgresSchema(cmd.Context(), sqlDB)
		} else {
			err = repositories.InitSchema(cmd.Context(), sqlDB)
		}
		if err != nil {
			return err
		}
		zap.L().Info("schema ready", zap.String("driver", cfg.Store.Driver))
		return nil
	},
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load offers from a JSON file into the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = cfg.Store.SeedPath
		}

		store := cfg.Store
		store.SeedOnStart = false
		c := *cfg
		c.Store = store

		a, err := app.Build(cmd.Context(), &c)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := repositories.SeedFromJSON(cmd.Context(), a.Repo, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d offers from %s\n", n, path)
		return nil
	},
}

func init() {
	dbSeedCmd.Flags().String("file", "", "seed file (defaults to store.seed_path)")

	dbCmd.AddCommand(dbInitCmd, dbSeedCmd)
	rootCmd.AddCommand(dbCmd)
}
