// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/deck"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/navigator"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

// ErrNoDeck is returned when no deck was named and none was used before.
var ErrNoDeck = errors.New("no deck selected: pass a slide directory or --deck")

func newApplication(opts []Option) (*application, *slog.Logger, error) {
	a := &application{}
	for _, opt := range opts {
		opt(a)
	}

	if a.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	out := a.logOutput
	if out == nil {
		out = os.Stdout
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	return a, logger, nil
}

// Present runs a presentation session until the operator quits, a signal
// arrives or ctx is cancelled. The audience server and the plugin dispatcher
// run alongside the frame loop when configured. The frame loop runs on the
// calling goroutine, which must own the UI thread.
func Present(ctx context.Context, opts ...Option) error {
	a, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := a.config

	logger.Info("Configuration loaded",
		slog.String("store_path", cfg.Store.Path),
		slog.String("server_addr", cfg.Server.Addr),
		slog.Int("camera", cfg.Camera.Device),
		slog.String("log_level", cfg.App.LogLevel.String()))

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	meta, slides, err := a.openDeck(st, logger)
	if err != nil {
		return err
	}
	defer slides.Close()

	det := a.detector
	if det == nil {
		mp, err := detector.NewMediaPipeDetector(cfg.Detector.Detector(), logger)
		if err != nil {
			return fmt.Errorf("init detector: %w", err)
		}
		det = mp
	}
	defer det.Close()

	camera := a.camera
	if camera == nil {
		camera = capture.NewCamera(cfg.Camera.Capture())
	}

	var dispatcher *plugin.Dispatcher
	if cfg.Plugins.Enabled() {
		if dispatcher, err = newDispatcher(cfg, logger); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	sink := a.sink
	if sink == nil {
		sink = display.NewWindow()
	}
	sinks := display.Tee{sink}
	var observers []navigator.Observer

	if cfg.Server.Enabled() {
		hub := server.NewHub(logger)
		sinks = append(sinks, hub)
		observers = append(observers, hub)

		srv := server.New(server.Config{Store: st, Hub: hub, Logger: logger})
		g.Go(func() error {
			return srv.Run(gCtx, cfg.Server.Addr)
		})
	}
	defer sinks.Close()

	if dispatcher != nil {
		observers = append(observers, dispatcher)
		g.Go(func() error {
			return dispatcher.Run(gCtx)
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	session, err := app.New(app.Config{
		Camera:    camera,
		Detector:  det,
		Slides:    slides,
		Sink:      sinks,
		Observers: observers,
		Store:     st,
		DeckID:    meta.ID,
		DeckName:  meta.Name,
		Gesture:   cfg.Gesture.Classifier(cfg.Camera.Width, cfg.Camera.Height),
		Navigator: navigator.Config{CooldownFrames: cfg.Navigator.CooldownFrames},
		Style:     cfg.Render.Style(cfg.Gesture.GuideLineY),
		FlipType:  cfg.Detector.FlipType,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	runErr := session.Run(gCtx)
	cancel()
	waitErr := g.Wait()

	if err := errors.Join(runErr, waitErr); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	summary := session.Summary()
	logger.Info("Presentation finished",
		slog.String("deck", meta.Name),
		slog.Int("frames", summary.Frames),
		slog.Int("navigations", summary.Navigations))
	return nil
}

// openDeck resolves the deck to present: an explicit directory, then an
// explicit stored deck, then the last presented deck.
func (a *application) openDeck(st *store.Store, logger *slog.Logger) (*store.Deck, *deck.Deck, error) {
	ref := a.deckRef

	if a.deckDir != "" {
		meta, err := findOrImport(st, a.deckName, a.deckDir, logger)
		if err != nil {
			return nil, nil, err
		}
		ref = meta.ID
	}

	if ref == "" {
		last, err := st.Settings().Get(store.SettingLastDeck)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrNoDeck
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read last deck: %w", err)
		}
		logger.Info("Reopening last deck", slog.String("deck_id", last))
		ref = last
	}

	return deck.Load(st, ref, a.config.Deck.CacheSize)
}

// findOrImport returns the stored deck imported from dir, importing it first
// when there is none.
func findOrImport(st *store.Store, name, dir string, logger *slog.Logger) (*store.Deck, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve deck dir: %w", err)
	}

	decks, err := st.Decks().List()
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	for _, d := range decks {
		if d.SourceDir == abs && (name == "" || d.Name == name) {
			return d, nil
		}
	}

	if name == "" {
		name = filepath.Base(abs)
	}
	meta, err := deck.Import(st, name, abs)
	if err != nil {
		return nil, err
	}
	logger.Info("Deck imported",
		slog.String("deck", meta.Name),
		slog.String("deck_id", meta.ID),
		slog.Int("slides", meta.SlideCount))
	return meta, nil
}

func newDispatcher(cfg *Config, logger *slog.Logger) (*plugin.Dispatcher, error) {
	manager := plugin.NewManager(cfg.Plugins.Dir, logger)
	if err := manager.Discover(); err != nil {
		return nil, fmt.Errorf("discover plugins: %w", err)
	}
	executor := plugin.NewExecutor(cfg.Plugins.TimeoutMs)

	dispatcher, err := plugin.NewDispatcher(manager, executor, cfg.Plugins.Bindings, plugin.DefaultQueueSize, logger)
	if err != nil {
		return nil, fmt.Errorf("init plugins: %w", err)
	}
	return dispatcher, nil
}

// Import scans the directory given by WithDir and stores it under the name
// given by WithName, or the directory's base name.
func Import(opts ...Option) (*store.Deck, error) {
	a, logger, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	if a.deckDir == "" {
		return nil, fmt.Errorf("slide directory is required")
	}

	st, err := store.New(a.config.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	name := a.deckName
	if name == "" {
		abs, err := filepath.Abs(a.deckDir)
		if err != nil {
			return nil, fmt.Errorf("resolve deck dir: %w", err)
		}
		name = filepath.Base(abs)
	}

	meta, err := deck.Import(st, name, a.deckDir)
	if err != nil {
		return nil, err
	}
	logger.Info("Deck imported",
		slog.String("deck", meta.Name),
		slog.String("deck_id", meta.ID),
		slog.Int("slides", meta.SlideCount))
	return meta, nil
}

// ListDecks writes the stored decks to w as a table.
func ListDecks(w io.Writer, opts ...Option) error {
	a, _, err := newApplication(opts)
	if err != nil {
		return err
	}

	st, err := store.New(a.config.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	decks, err := st.Decks().List()
	if err != nil {
		return fmt.Errorf("list decks: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSLIDES\tSOURCE")
	for _, d := range decks {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.ID, d.Name, d.SlideCount, d.SourceDir)
	}
	return tw.Flush()
}
