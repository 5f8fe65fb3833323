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

	"charityportal/internal/db"
	"charityportal/internal/geocode"
	"charityportal/internal/i18n"
	"charityportal/internal/lookup"
	"charityportal/internal/metrics"
	"charityportal/internal/permits"
	"charityportal/internal/server"
	"charityportal/internal/storage"
	"charityportal/internal/store"
	"charityportal/internal/workflow"
	"charityportal/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if err := requireCookieKeys(config); err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)
	attachmentStorage := storage.NewS3Storage(awsConfig, config.S3BucketName, config.S3Endpoint)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	permitRepo := store.NewPermitRepository(pool)
	attachmentRepo := store.NewAttachmentRepository(pool)
	progressRepo := store.NewStepProgressRepository(pool)

	source, err := lookupSource(config, pool)
	if err != nil {
		return err
	}

	catalog := lookup.NewCatalog(source, config)

	// A requirement catalog that does not fit the partner mapping stops
	// startup.
	opts, err := catalog.Options(ctx)
	if err != nil {
		return err
	}

	m := metrics.New()

	sessions := workflow.NewSessions(logger, m, opts, time.Duration(config.SessionIdleTimeoutSec)*time.Second)
	go sessions.Run(ctx)
	defer sessions.CloseAll()

	submitter := permits.New(logger, permitRepo, attachmentStorage)

	var geocoder server.Geocoder
	if config.GeocoderURL != "" {
		client, err := geocode.New(config.GeocoderURL, &http.Client{Timeout: 10 * time.Second})
		if err != nil {
			return err
		}
		geocoder = client
	}

	localizer := i18n.New(config.DefaultLocale)

	jwkCache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(ctx, jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwks with cache: %w", err)
	}

	srv, err := server.New(
		config,
		logger,
		cognitoClient,
		jwkCache,
		jwksURL,
		sessions,
		catalog,
		submitter,
		permitRepo,
		attachmentRepo,
		progressRepo,
		geocoder,
		pool,
		localizer,
		m,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

// lookupSource reads lookups from the remote lookup service when
// LOOKUP_BASE_URL is set, and from Postgres otherwise.
func lookupSource(config *types.Config, pool *pgxpool.Pool) (lookup.Source, error) {
	if config.LookupBaseURL != "" {
		source, err := lookup.NewRemoteSource(config.LookupBaseURL, config.DefaultLocale, &http.Client{Timeout: 15 * time.Second})
		if err != nil {
			return nil, err
		}
		return source, nil
	}

	return lookup.NewStoreSource(
		store.NewLocationTypeRepository(pool),
		store.NewRegionRepository(pool),
		store.NewRequirementRepository(pool),
	), nil
}
