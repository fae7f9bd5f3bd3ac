package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/database"
	"github.com/yasinhessnawi1/storefront/migrations"
	"github.com/yasinhessnawi1/storefront/scripts"
)

func newMigrateCmd(cfgFn func() (*config.AppConfig, error)) *cobra.Command {
	var skipSeeds bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		Long: `Create or update the database schema, then run pending seeds.

Examples:
  manage migrate                 # Apply migrations and seeds
  manage migrate --skip-seeds    # Apply migrations only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cfgFn()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := database.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := migrations.NewMigrator(db).RunMigrations(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Applied) == 0 && len(result.Recorded) == 0 {
				fmt.Fprintln(out, "No migrations to apply.")
			}
			for _, name := range result.Applied {
				fmt.Fprintf(out, "  Applying %s... OK\n", name)
			}
			for _, name := range result.Recorded {
				fmt.Fprintf(out, "  Recording %s (table already present)... OK\n", name)
			}

			if skipSeeds {
				return nil
			}
			hasher := auth.NewPasswordHasher(auth.ConfigFromAppConfig(cfg))
			return scripts.NewSeeder(db, &cfg.Admin, hasher).SeedDatabase(ctx)
		},
	}

	cmd.Flags().BoolVar(&skipSeeds, "skip-seeds", false, "Do not run seeds after migrating")
	return cmd
}
