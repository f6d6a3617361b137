package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lightd/internal/channel"
	"lightd/internal/common/fsutil"
	"lightd/internal/config"
	"lightd/internal/fields"
	"lightd/internal/httpapi"
	"lightd/internal/panel"
	"lightd/internal/surface"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	addr        string
	stateFile   string
	corsOrigins string
}

func newServeCmd(rf *rootFlags) *cobra.Command {
	sf := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the panel session and its HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, rf, sf)
			if err != nil {
				return err
			}
			log := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
	cmd.Flags().StringVar(&sf.addr, "addr", "", "HTTP listen address, e.g. :8090 (overrides config)")
	cmd.Flags().StringVar(&sf.stateFile, "state-file", "", "Document saved on shutdown and restored on start")
	cmd.Flags().StringVar(&sf.corsOrigins, "cors-origins", "", "Comma-separated allowed origins; enables CORS")
	return cmd
}

// resolveConfig layers file, environment and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command, rf *rootFlags, sf *serveFlags) (config.Config, error) {
	cfg, err := config.Resolve(rf.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if rf.logLevel != "" {
		cfg.LogLevel = rf.logLevel
	}
	if rf.logFormat != "" {
		cfg.LogFormat = rf.logFormat
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = sf.addr
	}
	if cmd.Flags().Changed("state-file") {
		cfg.StateFile = sf.stateFile
	}
	if origins := splitCSV(sf.corsOrigins); len(origins) > 0 {
		cfg.CORSEnabled = true
		cfg.CORSOrigins = origins
	}
	return cfg, nil
}

// serve runs until ctx is cancelled or the listener fails. The document is
// saved after the HTTP server drains and before the surface is detached.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	live := fields.NewMemoryFields()
	live.Set(fields.CinematicMode, cfg.Cinematic())

	bus := channel.NewBus(log.With().Str("component", "bus").Logger())
	defer bus.Close()

	sess := panel.NewSession(panel.Config{
		Fields:          live,
		SettleDelay:     cfg.SettleDelay(),
		ResizeDebounce:  cfg.ResizeDebounce(),
		ResizeThreshold: cfg.ResizeThreshold,
		Logger:          log,
	})

	statePath, err := fsutil.ExpandHome(cfg.StateFile)
	if err != nil {
		return fmt.Errorf("state file: %w", err)
	}
	if ok, err := sess.LoadFile(statePath); err != nil {
		log.Warn().Err(err).Str("path", statePath).Msg("state file ignored")
	} else if ok {
		log.Info().Str("path", statePath).Msg("document restored")
	}

	peer := surface.NewPeer("", bus, log)
	if err := sess.OnAttach(panel.Attachment{SurfaceID: peer.ID(), Medium: bus, Asset: peer}); err != nil {
		return fmt.Errorf("attach surface: %w", err)
	}
	peer.Start()

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetPreviewMaxDim(cfg.PreviewMaxDim)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(sess),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("panel", sess.ID()).Msg("lightd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case serveErr = <-errCh:
		if serveErr != nil {
			serveErr = fmt.Errorf("server error: %w", serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	if statePath != "" {
		if err := sess.SaveFile(statePath); err != nil {
			log.Error().Err(err).Str("path", statePath).Msg("save document")
		} else {
			log.Info().Str("path", statePath).Msg("document saved")
		}
	}
	sess.OnDetach()
	return serveErr
}
