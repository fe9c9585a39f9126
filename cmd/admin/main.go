// Command admin 创建管理员账户，或把已有账户提升为管理员。
//
//	admin --email root@example.com --password '...' [--name ... --paterno ... --materno ... --genero ... --telefono ...]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-gin-storefront/internal/core/config"
	"go-gin-storefront/internal/core/database"
	"go-gin-storefront/internal/core/logger"
	"go-gin-storefront/internal/repo"
	"go-gin-storefront/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var in service.SignupInput
	var configPath string

	cmd := &cobra.Command{
		Use:          "admin",
		Short:        "Create an admin account or promote an existing one",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ensureAdmin(cmd.Context(), configPath, in)
		},
	}
	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "config file path (default $CONFIG_PATH or configs/config.local.yaml)")
	f.StringVar(&in.Email, "email", "", "admin email")
	f.StringVar(&in.Password, "password", "", "password; optional when promoting an existing user")
	f.StringVar(&in.Name, "name", "Admin", "given name for a new account")
	f.StringVar(&in.ApellidoPaterno, "paterno", "-", "paternal surname for a new account")
	f.StringVar(&in.ApellidoMaterno, "materno", "-", "maternal surname for a new account")
	f.StringVar(&in.Genero, "genero", "N/A", "gender label for a new account")
	f.StringVar(&in.Telefono, "telefono", "0", "phone for a new account")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func ensureAdmin(parent context.Context, configPath string, in service.SignupInput) error {
	_ = godotenv.Load()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:       cfg.DB.Driver,
		DSN:          cfg.DB.DSN,
		Username:     cfg.DB.Username,
		Password:     cfg.DB.Password,
		MaxOpenConns: 1,
		LogLevel:     cfg.DB.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer func() { _ = database.Close(db) }()
	if err := repo.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()
	created, err := service.NewAuthService(repo.NewUserRepo(db), log).EnsureAdmin(ctx, in)
	if err != nil {
		return err
	}
	if created {
		log.Info("admin account created", zap.String("email", in.Email))
	} else {
		log.Info("existing account promoted to admin", zap.String("email", in.Email))
	}
	return nil
}
