package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/adapters/email"
	deliveryhttp "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
)

func newServeCmd(a *app) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the database schema before serving")
	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	cfg, logger := a.cfg, a.logger
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	timeout := cfg.ContextTimeout
	profileRepo := postgres.NewProfileRepository(db)
	conferenceRepo := postgres.NewConferenceRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	registrationStore := postgres.NewRegistrationStore(db)
	noticeCache := cache.NewMemoryCache(cfg.NoticeCacheTTL, logger)

	dispatcher := services.NewEmailDispatcher(mailer, email.NewTemplateRenderer(), logger, timeout)
	noticeSvc := services.NewNoticeService(conferenceRepo, sessionRepo, profileRepo, noticeCache, timeout)
	profileSvc := services.NewProfileService(profileRepo, timeout)
	conferenceSvc := services.NewConferenceService(conferenceRepo, profileRepo, dispatcher, timeout)
	sessionSvc := services.NewSessionService(conferenceRepo, sessionRepo, profileRepo, noticeSvc, logger, timeout)
	registrationSvc := services.NewRegistrationService(profileRepo, registrationStore, timeout)
	wishlistSvc := services.NewWishlistService(profileRepo, sessionRepo, timeout)

	handler := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Profile:    controllers.NewProfileController(logger, profileSvc),
		Conference: controllers.NewConferenceController(logger, conferenceSvc, registrationSvc),
		Session:    controllers.NewSessionController(logger, sessionSvc),
		Wishlist:   controllers.NewWishlistController(logger, wishlistSvc),
		Notice:     controllers.NewNoticeController(logger, noticeSvc),
	}, deliveryhttp.RouterConfig{
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		CronSecret:     cfg.CronSecret,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
