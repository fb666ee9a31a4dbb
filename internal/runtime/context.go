// Package runtime provides the application runtime context for plantcare.
package runtime

import (
	"context"
	"time"

	"github.com/manav03panchal/plantcare/internal/api"
	"github.com/manav03panchal/plantcare/internal/config"
	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	DB        *storage.DB
	Formatter *output.Formatter
	Config    *config.RuntimeConfig

	// Repositories
	PlantRepo  *storage.PlantRepo
	ConfigRepo *storage.ConfigRepo
	UndoRepo   *storage.UndoRepo

	// Remote is set when plants live on a plantcare server.
	Remote *api.Client

	// Debug mode
	Debug bool

	// Now is the clock every command reads.
	Now func() time.Time
}

// Options configures the runtime context.
type Options struct {
	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool

	// Config defaults to config.Global.
	Config *config.RuntimeConfig

	// Remote overrides the configured server URL.
	Remote string
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:    config.Global.Storage.Database,
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Global
	}

	path := opts.DBPath
	if path == "" {
		path = cfg.Storage.Database
	}
	if path == storage.MemoryPath {
		opts.InMemory = true
	}

	db, err := storage.Open(storage.Options{
		Path:     path,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, err
	}

	remoteURL := opts.Remote
	if remoteURL == "" {
		remoteURL = cfg.Remote.URL
	}
	var remote *api.Client
	if remoteURL != "" {
		remote, err = api.NewClient(remoteURL, cfg.HTTP.Timeout)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode
	if formatter.Format == "" {
		formatter.Format = output.FormatCLI
	}
	if formatter.ColorMode == "" {
		formatter.ColorMode = output.ColorAuto
	}

	return &Context{
		DB:         db,
		Formatter:  formatter,
		Config:     cfg,
		PlantRepo:  storage.NewPlantRepo(db),
		ConfigRepo: storage.NewConfigRepo(db),
		UndoRepo:   storage.NewUndoRepo(db),
		Remote:     remote,
		Debug:      opts.Debug,
		Now:        time.Now,
	}, nil
}

// Close closes the runtime context. Closing twice is a no-op.
func (c *Context) Close() error {
	if c.DB == nil {
		return nil
	}
	err := c.DB.Close()
	c.DB = nil
	return err
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}

// IsRemote reports whether plants are served by a remote server.
func (c *Context) IsRemote() bool {
	return c.Remote != nil
}

// Owner returns this installation's owner key, creating it on first use.
func (c *Context) Owner() (string, error) {
	cfg, err := c.ConfigRepo.Get()
	if err != nil {
		return "", err
	}
	return cfg.OwnerKey, nil
}

// Plants returns the plant service for the current mode.
func (c *Context) Plants() (PlantService, error) {
	if c.Remote == nil {
		return NewLocalPlants(c.PlantRepo, c.UndoRepo, c.Now), nil
	}
	owner, err := c.Owner()
	if err != nil {
		return nil, err
	}
	return NewRemotePlants(c.Remote, owner), nil
}

// Debugf logs a debug record when debug mode is enabled.
func (c *Context) Debugf(ctx context.Context, msg string, args ...any) {
	if c.Debug {
		logging.LoggerFromContext(ctx).DebugContext(ctx, msg, args...)
	}
}
