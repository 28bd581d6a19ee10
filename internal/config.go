package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/deck"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/navigator"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/render"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Camera    CameraConfig      `yaml:"camera"`
	Detector  DetectorConfig    `yaml:"detector"`
	Gesture   GestureConfig     `yaml:"gesture"`
	Navigator NavigatorConfig   `yaml:"navigator"`
	Render    RenderConfig      `yaml:"render"`
	Deck      DeckConfig        `yaml:"deck"`
	Store     StoreConfig       `yaml:"store"`
	Server    ServerConfig      `yaml:"server"`
	Plugins   PluginsConfig     `yaml:"plugins"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validators := []interface{ Validate() error }{
		&c.Camera, &c.Detector, &c.Gesture, &c.Navigator,
		&c.Render, &c.Deck, &c.Store, &c.Plugins,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// CameraConfig selects the capture device and frame size.
type CameraConfig struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Validate validates the camera configuration.
func (c *CameraConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Device, validation.Min(0)),
		validation.Field(&c.Width, validation.Required, validation.Min(2)),
		validation.Field(&c.Height, validation.Required, validation.Min(2)),
	); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	return nil
}

// Capture converts the section to the capture package's config.
func (c *CameraConfig) Capture() capture.Config {
	return capture.Config{DeviceID: c.Device, Width: c.Width, Height: c.Height}
}

// DetectorConfig configures the MediaPipe hand service.
type DetectorConfig struct {
	Script        string  `yaml:"script"`
	Python        string  `yaml:"python"`
	MinConfidence float64 `yaml:"min_confidence"`
	FlipType      bool    `yaml:"flip_type"`
}

// Validate validates the detector configuration.
func (c *DetectorConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.MinConfidence, validation.Min(0.0), validation.Max(1.0)),
	); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	return nil
}

// Detector converts the section to the detector package's config.
func (c *DetectorConfig) Detector() detector.Config {
	cfg := detector.DefaultConfig()
	cfg.Script = c.Script
	cfg.Python = c.Python
	cfg.FlipType = c.FlipType
	if c.MinConfidence > 0 {
		cfg.MinConfidence = c.MinConfidence
	}
	return cfg
}

// GestureConfig tunes swipe sensitivity and the pointing area.
type GestureConfig struct {
	MovementThreshold int `yaml:"movement_threshold"`
	PointMarginY      int `yaml:"point_margin_y"`
	GuideLineY        int `yaml:"guide_line_y"`
}

// Validate validates the gesture configuration.
func (c *GestureConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.MovementThreshold, validation.Required, validation.Min(1)),
		validation.Field(&c.PointMarginY, validation.Min(0)),
		validation.Field(&c.GuideLineY, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("gesture: %w", err)
	}
	return nil
}

// Classifier converts the section to the gesture package's config for a
// capture of the given size.
func (c *GestureConfig) Classifier(width, height int) gesture.Config {
	return gesture.Config{
		MovementThreshold: c.MovementThreshold,
		Width:             width,
		Height:            height,
		PointMarginY:      c.PointMarginY,
	}
}

// NavigatorConfig holds the navigation state machine settings.
type NavigatorConfig struct {
	CooldownFrames int `yaml:"cooldown_frames"`
}

// Validate validates the navigator configuration.
func (c *NavigatorConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.CooldownFrames, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("navigator: %w", err)
	}
	return nil
}

// RenderConfig sizes the annotation ink and the camera thumbnail.
type RenderConfig struct {
	StrokeThickness int `yaml:"stroke_thickness"`
	CursorRadius    int `yaml:"cursor_radius"`
	ThumbWidth      int `yaml:"thumb_width"`
	ThumbHeight     int `yaml:"thumb_height"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.StrokeThickness, validation.Min(1)),
		validation.Field(&c.CursorRadius, validation.Min(1)),
		validation.Field(&c.ThumbWidth, validation.Min(1)),
		validation.Field(&c.ThumbHeight, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Style returns the default style with this section's sizes applied.
func (c *RenderConfig) Style(guideY int) render.Style {
	style := render.DefaultStyle()
	if c.StrokeThickness > 0 {
		style.StrokeThickness = c.StrokeThickness
	}
	if c.CursorRadius > 0 {
		style.CursorRadius = c.CursorRadius
	}
	if c.ThumbWidth > 0 && c.ThumbHeight > 0 {
		style.ThumbWidth, style.ThumbHeight = c.ThumbWidth, c.ThumbHeight
	}
	if guideY > 0 {
		style.GuideY = guideY
	}
	return style
}

// DeckConfig holds slide loading settings.
type DeckConfig struct {
	CacheSize int `yaml:"cache_size"`
}

// Validate validates the deck configuration.
func (c *DeckConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.CacheSize, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("deck: %w", err)
	}
	return nil
}

// StoreConfig holds the SQLite database location.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// ServerConfig holds the audience view address. An empty Addr disables it.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Enabled reports whether the audience view should be served.
func (c *ServerConfig) Enabled() bool {
	return c.Addr != ""
}

// PluginsConfig holds plugin discovery and navigation bindings.
type PluginsConfig struct {
	Dir       string           `yaml:"dir"`
	TimeoutMs int              `yaml:"timeout_ms"`
	Bindings  []plugin.Binding `yaml:"bindings"`
}

// Validate validates the plugins configuration.
func (c *PluginsConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.TimeoutMs, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("plugins: %w", err)
	}

	for i := range c.Bindings {
		b := &c.Bindings[i]
		if err := validation.ValidateStruct(b,
			validation.Field(&b.On, validation.Required, validation.In(navigator.DirectionNext, navigator.DirectionPrevious)),
			validation.Field(&b.Plugin, validation.Required),
			validation.Field(&b.Action, validation.Required),
		); err != nil {
			return fmt.Errorf("plugins: binding %d: %w", i, err)
		}
	}

	if len(c.Bindings) > 0 && c.Dir == "" {
		return fmt.Errorf("plugins: dir is required when bindings are set")
	}
	return nil
}

// Enabled reports whether any binding needs the plugin dispatcher.
func (c *PluginsConfig) Enabled() bool {
	return len(c.Bindings) > 0
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Camera: CameraConfig{
			Device: 0,
			Width:  capture.DefaultWidth,
			Height: capture.DefaultHeight,
		},
		Detector: DetectorConfig{
			MinConfidence: detector.DefaultConfig().MinConfidence,
			FlipType:      true,
		},
		Gesture: GestureConfig{
			MovementThreshold: gesture.DefaultMovementThreshold,
			PointMarginY:      gesture.DefaultPointMarginY,
			GuideLineY:        render.DefaultStyle().GuideY,
		},
		Navigator: NavigatorConfig{
			CooldownFrames: navigator.DefaultCooldownFrames,
		},
		Deck: DeckConfig{
			CacheSize: deck.DefaultCacheSize,
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
		Plugins: PluginsConfig{
			Dir:       "./plugins",
			TimeoutMs: plugin.DefaultTimeoutMs,
		},
	}
}

// defaultStorePath is ~/.mudra/mudra.db, or ./mudra.db without a home directory.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mudra.db"
	}
	return filepath.Join(home, ".mudra", "mudra.db")
}
