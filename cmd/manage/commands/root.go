// Package commands implements the manage command line tool.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/database"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/repository"
	"github.com/yasinhessnawi1/storefront/internal/service"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// userManager is the part of service.UserService the account commands use.
type userManager interface {
	CreateSuperuser(ctx context.Context, in service.SuperuserInput) (*models.User, error)
	ChangePassword(ctx context.Context, username, newPassword string, skipValidation bool) error
}

// openUsers connects to the database and returns a user manager plus a
// function releasing the connection. Tests replace it.
var openUsers = func(ctx context.Context, cfg *config.AppConfig) (userManager, func(), error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	users := service.NewUserService(
		repository.NewUserRepository(db),
		auth.NewPasswordHasher(auth.ConfigFromAppConfig(cfg)),
		auth.NewPasswordValidator(),
	)
	return users, db.Close, nil
}

// loadConfig is replaced in tests.
var loadConfig = func(path string) (*config.AppConfig, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	utils.InitLogger(cfg)
	return cfg, nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "manage",
		Short: "Storefront administrative commands",
		Long: `Administrative commands for the storefront backend.

Commands:
  migrate          - Apply pending database migrations and seeds
  createsuperuser  - Create a staff account
  changepassword   - Set a new password for an account`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "./configs/config.yaml", "Path to configuration file")

	cfgFn := func() (*config.AppConfig, error) {
		return loadConfig(configPath)
	}

	root.AddCommand(
		newMigrateCmd(cfgFn),
		newCreateSuperuserCmd(cfgFn),
		newChangePasswordCmd(cfgFn),
	)
	return root
}

// Execute runs the root command
func Execute() {
	// A missing .env is fine, configuration may come from the environment
	_ = godotenv.Load()

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
