package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"markettakip/app/models"
	"markettakip/app/repositories"
	"markettakip/config"
	"markettakip/pkg/collection"
	"markettakip/pkg/excel"
	"markettakip/pkg/store"
)

var exportOut string

// markettakip export — write the catalog workbook to a file.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to an XLSX workbook",
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

		products, err := repositories.NewProductRepository(m).All(ctx)
		if err != nil {
			return err
		}
		suppliers, err := repositories.NewSupplierRepository(m).All(ctx)
		if err != nil {
			return err
		}
		names := collection.Map(suppliers, func(s models.Supplier) string { return s.Name })

		out := exportOut
		if out == "" {
			out = excel.Filename(time.Now())
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := excel.WriteCatalog(f, products, names); err != nil {
			return err
		}

		fmt.Printf("Exported %d products to %s\n", len(products), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: dated name in the working directory)")
}
