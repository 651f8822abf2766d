// migrate aplica las migraciones SQL embebidas sobre la base configurada (DB_* o DATABASE_URL).
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate version
//	go run ./cmd/migrate force 1
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/restobar-api/internal/infrastructure/postgres"
	"github.com/jhoicas/restobar-api/pkg/config"
	"github.com/jhoicas/restobar-api/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Migraciones de la base de datos",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica las migraciones pendientes",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *postgres.Migrator, _ []string) error {
				return m.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revierte todas las migraciones",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *postgres.Migrator, _ []string) error {
				return m.Down()
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Muestra la versión aplicada",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *postgres.Migrator, _ []string) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Fija la versión sin ejecutar SQL (destraba un estado dirty)",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(m *postgres.Migrator, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("versión inválida %q: %w", args[0], err)
				}
				return m.Force(v)
			}),
		},
	)
	return root
}

// withMigrator carga configuración y logger, abre el migrador y lo cierra al terminar.
func withMigrator(fn func(m *postgres.Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

		m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Zerolog())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := m.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("cerrar migrador")
			}
		}()
		return fn(m, args)
	}
}
