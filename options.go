package docx2pdf

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	engine        Engine
	timeout       time.Duration
	logger        *slog.Logger
	page          *PageSettings
	compress      bool
	now           func() time.Time
	imageMaxWidth float64
	style         string
	assetPath     string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithEngine selects the rendering engine. NewConverter rejects unknown
// engines with ErrInvalidEngine.
func WithEngine(e Engine) Option {
	return func(c *Converter) {
		c.cfg.engine = e
	}
}

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("docx2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger for conversion events. Logs are discarded by
// default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}

// WithPage sets the page size, orientation and margin. NewConverter
// validates the settings.
func WithPage(p *PageSettings) Option {
	return func(c *Converter) {
		c.cfg.page = p
	}
}

// WithCompression toggles stream compression in native engine output.
// Compression is on by default.
func WithCompression(on bool) Option {
	return func(c *Converter) {
		c.cfg.compress = on
	}
}

// WithClock sets the time source for the PDF creation date.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.cfg.now = now
		}
	}
}

// WithImageMaxWidth sets the display width cap for images in points.
// Panics if w <= 0.
func WithImageMaxWidth(w float64) Option {
	if w <= 0 {
		panic("docx2pdf: WithImageMaxWidth width must be positive")
	}
	return func(c *Converter) {
		c.cfg.imageMaxWidth = w
	}
}

// WithStyle selects the CSS style used by EngineChrome.
func WithStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.style = name
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// built-in assets of EngineChrome.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}
