package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/olfat123/profile-creator/config"
	"github.com/olfat123/profile-creator/internal/api/handlers"
	"github.com/olfat123/profile-creator/internal/api/middleware"
	"github.com/olfat123/profile-creator/internal/api/routes"
	"github.com/olfat123/profile-creator/internal/cache"
	"github.com/olfat123/profile-creator/internal/forms"
	"github.com/olfat123/profile-creator/internal/notify"
	mongorepo "github.com/olfat123/profile-creator/internal/repositories/mongo"
	pgrepo "github.com/olfat123/profile-creator/internal/repositories/postgres"
	"github.com/olfat123/profile-creator/internal/services"
	"github.com/olfat123/profile-creator/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := settings

	if err := config.InitDatabase(s, log); err != nil {
		return err
	}
	log.WithField("driver", s.DatabaseDriver).Info("database connected")
	if err := pgrepo.Migrate(config.DB); err != nil {
		return err
	}

	var store cache.Cache = cache.NewMemoryCache()
	var feed *notify.RedisPublisher
	if s.RedisAddr != "" {
		if err := config.InitRedis(s.RedisAddr); err != nil {
			return err
		}
		log.Info("redis connected")
		store = cache.NewRedisCache(config.RedisClient)
		feed = notify.NewRedisPublisher(config.RedisClient, notify.SubmissionsChannel)
	} else {
		log.Warn("REDIS_ADDR not set; sessions are kept in memory and the admin feed is disabled")
	}

	var taxonomyRepo mongorepo.TaxonomyRepository
	if s.MongoURI != "" {
		if err := config.InitMongo(s.MongoURI, s.MongoForceTLS12, s.MongoInsecureTLS); err != nil {
			return err
		}
		if err := config.EnsureMongoIndexes(s.MongoDB); err != nil {
			log.WithError(err).Warn("mongo index setup failed")
		}
		taxonomyRepo = mongorepo.NewTaxonomyRepo(config.MongoClient.Database(s.MongoDB))
		log.Info("mongo connected")
	}

	ref, err := config.LoadReferenceFile(s.ReferenceFile)
	if err != nil {
		return err
	}

	uploader, err := newUploader(ctx)
	if err != nil {
		return err
	}

	accountRepo := pgrepo.NewAccountRepo(config.DB)
	recordRepo := pgrepo.NewRecordRepo(config.DB)
	attachmentRepo := pgrepo.NewAttachmentRepo(config.DB)

	accountSvc := services.NewAccountService(accountRepo)
	recordSvc := services.NewRecordService(recordRepo, accountRepo, s.PublicBaseURL)
	attachmentSvc := services.NewAttachmentService(attachmentRepo, uploader, s.MaxUploadBytes, log)
	sessionSvc := services.NewSessionService(store, s.SessionTTL)
	taxonomySvc := services.NewTaxonomyService(taxonomyRepo, store, ref.ReferenceLists, log)

	tokens := forms.NewTokens(s.FormTokenSecret, s.FormTokenTTL)
	engine := forms.NewEngine(forms.EngineDeps{
		Forms:       forms.DefaultRegistry(),
		Accounts:    accountSvc,
		Records:     recordSvc,
		Attachments: attachmentSvc,
		Tokens:      tokens,
		Notifier:    newNotifier(feed),
		Log:         log,
	})

	cookie := middleware.CookieConfig{
		Name:   s.SessionCookie,
		Domain: s.CookieDomain,
		Secure: s.CookieSecure,
		TTL:    s.SessionTTL,
	}

	deps := routes.Deps{
		Forms:    handlers.NewFormHandler(engine, tokens, taxonomySvc, sessionSvc, accountSvc, cookie, s.MaxUploadBytes, log),
		Profiles: handlers.NewProfileHandler(recordSvc),
		Taxonomy: handlers.NewTaxonomyHandler(taxonomySvc),
		Session:  handlers.NewSessionHandler(sessionSvc, accountSvc, attachmentSvc, cookie),
		Sessions: sessionSvc,
		Cookie:   cookie,
		JWT: middleware.JWTConfig{
			Secret:   s.AdminJWTSecret,
			Issuer:   s.AdminJWTIssuer,
			Audience: s.AdminJWTAudience,
		},
		Log: log,
	}
	if feed != nil {
		deps.WS = handlers.NewWSHandler(feed, s.WSAllowedOrigins, log)
	}

	if s.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.MaxMultipartMemory = s.MaxUploadBytes
	if s.StorageDriver == "local" {
		r.Static("/uploads", s.UploadDir)
	}
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", s.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if config.MongoClient != nil {
		_ = config.MongoClient.Disconnect(shutdownCtx)
	}
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
	return nil
}

func newUploader(ctx context.Context) (storage.Uploader, error) {
	s := settings
	if s.StorageDriver == "gcs" {
		u, err := storage.NewGCSUploader(ctx, s.GCSBucket, s.GCSCredentials)
		if err != nil {
			return nil, err
		}
		log.WithField("bucket", s.GCSBucket).Info("gcs storage ready")
		return u, nil
	}
	return storage.NewLocalUploader(s.UploadDir, s.UploadBaseURL)
}

func newNotifier(feed *notify.RedisPublisher) notify.Notifier {
	s := settings
	var sinks notify.Multi

	if s.MailEnabled() {
		m, err := notify.NewMailNotifier(notify.MailConfig{
			Host:     s.SMTPHost,
			Port:     s.SMTPPort,
			Username: s.SMTPUser,
			Password: s.SMTPPassword,
			From:     s.MailFrom,
			To:       s.NotifyEmail,
		})
		if err != nil {
			log.WithError(err).Warn("mail notifier disabled")
		} else {
			sinks = append(sinks, m)
		}
	}

	if s.TelegramToken != "" && s.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(s.TelegramToken, s.TelegramChatID)
		if err != nil {
			log.WithError(err).Warn("telegram notifier disabled")
		} else {
			sinks = append(sinks, tg)
		}
	}

	if feed != nil {
		sinks = append(sinks, feed)
	}

	if len(sinks) == 0 {
		return notify.Nop{}
	}
	return sinks
}
