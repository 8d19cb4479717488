package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"markettakip/app/repositories"
	"markettakip/app/services"
	"markettakip/config"
	"markettakip/pkg/store"
)

// markettakip migrate — run the legacy import once, without the server.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import the legacy locally-cached product file into the store",
	Long: "Reads the JSON product array exported from the old browser-local storage\n" +
		"and imports it into the products collection. Skipped entirely when the\n" +
		"collection already holds any product.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		m, err := store.Connect(ctx, config.MongoURI(), config.MongoDatabase())
		if err != nil {
			return err
		}
		defer m.Close(context.Background()) //nolint:errcheck

		migration := services.NewMigrationService(
			repositories.NewProductRepository(m), config.LegacyDataPath())
		migration.Run(ctx)
		return nil
	},
}
