package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/V4T54L/integrator/internal/adapter/repository"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the storage schema if absent and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		store, err := openStorage(context.Background(), cfg, logger, repository.Open)
		if err != nil {
			return err
		}
		return store.Close()
	},
}
