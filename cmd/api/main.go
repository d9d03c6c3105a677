package main

import (
	"fmt"
	"log"
	"os"

	"github.com/petermazzocco/murmur-api/internal/config"
	"github.com/petermazzocco/murmur-api/internal/store"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "murmur-api",
		Short: "social feed API",
		Long: `murmur-api serves users, murmurs, likes and follows over HTTP.

Settings come from flags or MURMUR_<FLAG> environment variables
(e.g. MURMUR_DB_DRIVER=sqlite). .env and .env.local are loaded first.`,
		SilenceUsage: true,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE:  serve,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE:  migrate,
	}
)

func init() {
	cobra.OnInitialize(config.InitEnv)

	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBDriver, cfg.DSN, nil)
	if err != nil {
		return err
	}
	if err := store.New(db).Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Println("Schema is up to date")
	return nil
}
