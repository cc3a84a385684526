package main

import (
	"os"

	"github.com/JayJamieson/sports-api/pkg/api"
	"github.com/JayJamieson/sports-api/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	envFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "sports-api",
	Short: "Serve sports program and facility listings over HTTP",
	Long: `sports-api exposes read-only, filterable listings of sports programs and
facilities loaded from CSV files or from a libsql mirror of them.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")
	flags.Int("port", 8001, "Server port")
	flags.String("data-dir", "./data", "Directory holding the CSV files")
	flags.String("source", "csv", "Table source: csv or libsql")
	flags.String("db-url", "file:data.db", "libsql database URL")
	flags.String("cache", "none", "Table cache: none, memory or redis")
	flags.Bool("strict-errors", false, "Report typed errors instead of empty results")
	flags.String("log-level", "info", "Log level")

	bindFlag("PORT", "port")
	bindFlag("DATA_DIR", "data-dir")
	bindFlag("DATA_SOURCE", "source")
	bindFlag("DATABASE_URL", "db-url")
	bindFlag("CACHE", "cache")
	bindFlag("STRICT_ERRORS", "strict-errors")
	bindFlag("LOG_LEVEL", "log-level")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}

func bindFlag(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(v, envFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, setupLogger(cfg.App.LogLevel), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	server, err := api.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}

	if err := server.Start(); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
