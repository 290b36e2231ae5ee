package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/livesteno/livesteno-server/internal/broadcast"
	"github.com/livesteno/livesteno-server/internal/caption"
	"github.com/livesteno/livesteno-server/internal/config"
	"github.com/livesteno/livesteno-server/internal/roomstate"
	"github.com/livesteno/livesteno-server/internal/roomstate/sqlite"
	"github.com/livesteno/livesteno-server/internal/steno"
	"github.com/livesteno/livesteno-server/internal/translate"
	transporthttp "github.com/livesteno/livesteno-server/internal/transport/http"
)

// App wires the caption domain, distribution channels and transport together.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           roomstate.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	var (
		store roomstate.Store
		err   error
	)
	if cfg.DatabasePath != "" {
		store, err = sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("init store: %w", err)
		}
		logger.Info().Str("db_path", cfg.DatabasePath).Msg("room state store initialized")
	} else {
		store = roomstate.NewMemory()
		logger.Info().Msg("using in-memory room state store")
	}

	translator, err := buildTranslator(ctx, cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	hub := broadcast.NewHub()
	rooms := steno.NewRooms(func(roomID string) *steno.Session {
		return steno.NewSession(roomID, steno.Options{
			Hub:           hub,
			Translator:    translator,
			Remote:        store,
			Logger:        logger,
			Debounce:      cfg.CommitDebounce,
			DefaultTarget: caption.LanguageCode(cfg.Translation.DefaultTarget),
		})
	})

	server := transporthttp.NewServer(hub, rooms, store, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           store,
		log:             logger,
	}, nil
}

func buildTranslator(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (translate.Translator, error) {
	provider := translate.ProviderConfig{
		APIKey:      cfg.Translation.APIKey,
		Model:       cfg.Translation.Model,
		BaseURL:     cfg.Translation.BaseURL,
		Temperature: cfg.Translation.Temperature,
		MaxTokens:   cfg.Translation.MaxTokens,
	}
	if !provider.Enabled() {
		logger.Warn().Msg("translation provider not configured, captions will not be translated")
		return translate.Disabled{}, nil
	}

	chatModel, err := translate.NewChatModel(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("init translation model: %w", err)
	}
	logger.Info().Str("model", cfg.Translation.Model).Msg("translation provider initialized")

	return translate.NewService(translate.Options{
		Model:             chatModel,
		SourceLanguage:    caption.LanguageCode(cfg.Translation.SourceLanguage),
		FirstChunkTimeout: cfg.Translation.FirstChunkTimeout,
		Logger:            logger,
	}), nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the room state store.
func (a *App) cleanup() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close store")
	} else {
		a.log.Info().Msg("store closed")
	}
}
