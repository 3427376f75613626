package container

import (
	"fmt"

	"diamondeda/adapters/charts"
	datasetadapter "diamondeda/adapters/dataset"
	"diamondeda/app"
	"diamondeda/domain/dataset"
	"diamondeda/internal"
	"diamondeda/internal/config"
	"diamondeda/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Adapters
	Loader   ports.DatasetLoader
	Renderer ports.ChartRenderer

	// Services
	EDAService *app.EDAService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level)),
	}

	c.initAdapters()
	c.initServices()
	return c, nil
}

// WithLogger rebuilds the components around logger, used by tests to silence output
func (c *Container) WithLogger(logger *internal.Logger) *Container {
	c.Logger = logger
	c.initAdapters()
	c.initServices()
	return c
}

func (c *Container) initAdapters() {
	c.Loader = datasetadapter.NewLoader(c.Config.Data, dataset.DiamondsSchema).WithLogger(c.Logger)
	c.Renderer = charts.NewRenderer(c.Config.Output, c.Logger)
}

func (c *Container) initServices() {
	c.EDAService = app.NewEDAService(c.Config, c.Loader, c.Renderer, c.Logger)
}
