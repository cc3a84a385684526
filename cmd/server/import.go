package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JayJamieson/sports-api/pkg/db"
	"github.com/JayJamieson/sports-api/pkg/service"
	"github.com/JayJamieson/sports-api/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	importPrograms   string
	importFacilities string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the CSV datasets into the libsql mirror",
	Long: `import parses the programs and facilities CSV files (local paths or
http(s) URLs) and replaces the matching tables in the libsql database given
by --db-url. Serve them afterwards with --source libsql.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importPrograms, "programs", "", "Programs CSV path or URL (default: configured programs file)")
	importCmd.Flags().StringVar(&importFacilities, "facilities", "", "Facilities CSV path or URL (default: configured facilities file)")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	locations := map[string]string{
		service.DatasetPrograms:   cfg.Data.ProgramsPath(),
		service.DatasetFacilities: cfg.Data.FacilitiesPath(),
	}
	if importPrograms != "" {
		locations[service.DatasetPrograms] = importPrograms
	}
	if importFacilities != "" {
		locations[service.DatasetFacilities] = importFacilities
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	csvSource, err := db.NewCSVSource(nil)
	if err != nil {
		return err
	}
	defer csvSource.Close()

	mirror, err := db.NewMirror(cfg.Data.DatabaseURL)
	if err != nil {
		return err
	}
	defer mirror.Close()

	tempDir, err := os.MkdirTemp("", "sports-import")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	type loaded struct {
		name  string
		table *db.Table
	}
	results := make(chan loaded, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	for name, location := range locations {
		g.Go(func() error {
			path, cleanup, err := utils.LocalCopy(gctx, location, tempDir)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			defer cleanup()

			t, err := csvSource.LoadFile(gctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			results <- loaded{name: name, table: t}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	close(results)

	// libsql writes stay sequential, one transaction per dataset.
	for r := range results {
		prev, err := mirror.LastImport(ctx, r.name)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			logger.WithError(err).WithField("dataset", r.name).Warn("could not read previous import")
		}

		imp, err := mirror.Persist(ctx, r.name, locations[r.name], r.table)
		if err != nil {
			return fmt.Errorf("failed to persist %s: %w", r.name, err)
		}

		fields := logrus.Fields{
			"id":      imp.ID,
			"dataset": imp.Name,
			"source":  imp.Source,
			"rows":    imp.Rows,
		}
		if prev != nil {
			fields["replaced_id"] = prev.ID
			fields["replaced_rows"] = prev.Rows
			fields["replaced_at"] = prev.ImportedAt
		}
		logger.WithFields(fields).Info("dataset imported")
	}

	return nil
}
