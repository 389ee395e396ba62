// Package wire provides dependency injection for the create-dataset command.
// It composes the configuration, logger, registry and services for one run.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/francisjervis/nyc-db/internal/adapters/filesystem"
	"github.com/francisjervis/nyc-db/internal/adapters/sqlite"
	"github.com/francisjervis/nyc-db/internal/app"
	"github.com/francisjervis/nyc-db/internal/config"
	"github.com/francisjervis/nyc-db/internal/core/effects"
	"github.com/francisjervis/nyc-db/internal/db"
	"github.com/francisjervis/nyc-db/internal/logger"
	"github.com/francisjervis/nyc-db/internal/ports/primary"
	"github.com/francisjervis/nyc-db/internal/ports/secondary"
	"github.com/francisjervis/nyc-db/internal/scaffold"
)

// Options are the command-line settings that shape the graph.
type Options struct {
	Root       string // project root; found from the working directory when empty
	ConfigFile string // explicit config file; <root>/.create-dataset.yml when empty
	NoRegistry bool
	Verbose    bool
}

var _ app.EffectExecutor = (*Container)(nil)

// Container holds the services for one invocation. The registry database is
// opened on first use, so a rejected or dry run never creates it.
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	project  *filesystem.ProjectAdapter
	executor *app.DefaultEffectExecutor
	history  primary.HistoryService
	database *sql.DB
}

// New resolves the project root and loads the configuration.
func New(ctx context.Context, opts Options) (*Container, error) {
	project := filesystem.NewProjectAdapter(config.Default().Layout.DatasetsDir)

	root, err := resolveRoot(ctx, project, opts.Root)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if opts.ConfigFile != "" {
		cfg, err = config.LoadConfigFile(root, opts.ConfigFile)
	} else {
		cfg, err = config.LoadConfig(root)
	}
	if err != nil {
		return nil, err
	}
	if opts.NoRegistry {
		cfg.Registry.Enabled = false
	}

	log, err := logger.New(cfg.Log.Mode, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &Container{
		Config:  cfg,
		Logger:  log,
		project: project,
	}, nil
}

// openRegistry builds the executor and history service, opening the registry
// database when it is enabled. Later calls reuse the first result.
func (c *Container) openRegistry() error {
	if c.executor != nil {
		return nil
	}

	// Repository adapters stay nil interfaces when the registry is disabled
	var regions secondary.RegionRepository
	var history secondary.HistoryRepository
	if c.Config.Registry.Enabled {
		path, err := c.Config.RegistryPath()
		if err != nil {
			return err
		}
		database, err := db.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open registry %s: %w", path, err)
		}
		c.Logger.Debug("registry opened", "path", path)

		regionRepo := sqlite.NewRegionRepository(database)
		historyRepo := sqlite.NewHistoryRepository(database)
		regions, history = regionRepo, historyRepo
		c.database = database
		c.history = app.NewHistoryService(historyRepo, regionRepo)
	}

	c.executor = app.NewEffectExecutor(filesystem.NewSplicer(), regions, history, c.Logger)
	return nil
}

// Execute implements app.EffectExecutor for the dataset service, opening the
// registry only once there are effects to run.
func (c *Container) Execute(ctx context.Context, effs []effects.Effect) error {
	if err := c.openRegistry(); err != nil {
		return err
	}
	return c.executor.Execute(ctx, effs)
}

// DatasetService validates csvPath and generates its artifacts. Flag values in
// opts override the configuration when set.
func (c *Container) DatasetService(ctx context.Context, csvPath string, opts scaffold.Options) (primary.DatasetService, error) {
	if opts.IndexColumn == "" {
		opts.IndexColumn = c.Config.IndexColumn
	}
	if opts.SampleLines <= 0 {
		opts.SampleLines = c.Config.SampleLines
	}

	req := app.ScaffoldRequest{
		CSVPath:       csvPath,
		Layout:        c.Config.Layout,
		Options:       opts,
		RecordHistory: c.Config.Registry.Enabled,
	}
	return app.NewDatasetScaffolder(ctx, req, c.project, c)
}

// HistoryService returns the history reader, or an error when the registry is
// disabled.
func (c *Container) HistoryService() (primary.HistoryService, error) {
	if !c.Config.Registry.Enabled {
		return nil, fmt.Errorf("the scaffold registry is disabled")
	}
	if err := c.openRegistry(); err != nil {
		return nil, err
	}
	return c.history, nil
}

// Close releases the registry and flushes the logger.
func (c *Container) Close() error {
	c.Logger.Sync()
	if c.database != nil {
		return c.database.Close()
	}
	return nil
}

func resolveRoot(ctx context.Context, project *filesystem.ProjectAdapter, root string) (string, error) {
	if root != "" {
		return filepath.Abs(root)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	found, err := project.FindRoot(ctx, wd)
	if err != nil {
		// Layout validation reports what is missing
		return wd, nil
	}
	return found, nil
}
