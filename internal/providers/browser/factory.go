package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GriffinCanCode/KioskShell/internal/domain/window"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/KioskShell/internal/providers/browser/sandbox"
	"github.com/GriffinCanCode/KioskShell/internal/shared/types"
)

// Config holds headless surface settings
type Config struct {
	UserAgent    string
	FetchTimeout time.Duration
	Sandbox      sandbox.Config
}

// DefaultConfig returns the surface defaults
func DefaultConfig() Config {
	return Config{
		UserAgent:    "KioskShell/1.0",
		FetchTimeout: 15 * time.Second,
		Sandbox:      sandbox.DefaultConfig(),
	}
}

// Factory creates headless surfaces sharing one HTTP client
type Factory struct {
	client *resty.Client
	config Config
	logger *logging.Logger
}

// NewFactory creates a surface factory
func NewFactory(cfg Config, logger *logging.Logger) *Factory {
	if logger == nil {
		logger = logging.NewNop()
	}

	// Loads are never retried: a failed page stays failed until the
	// next navigation.
	client := resty.New().
		SetTimeout(cfg.FetchTimeout).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Factory{
		client: client,
		config: cfg,
		logger: logger.Named(logging.ComponentBrowser),
	}
}

// NewSurface implements window.SurfaceFactory
func (f *Factory) NewSurface(opts window.SurfaceOptions, onEvent window.EventFunc) (window.Surface, error) {
	bounds := types.Bounds{Width: opts.Width, Height: opts.Height}
	if bounds.Empty() {
		return nil, fmt.Errorf("invalid surface size %dx%d", opts.Width, opts.Height)
	}

	rt, err := sandbox.New(f.config.Sandbox)
	if err != nil {
		return nil, fmt.Errorf("failed to create script runtime: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Surface{
		client:  f.client,
		runtime: rt,
		doc:     sandbox.NewDocument(""),
		index:   -1,
		bounds:  bounds,
		onEvent: onEvent,
		logger:  f.logger,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}
