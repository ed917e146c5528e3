package main

import (
	"context"
	"database/sql"
	"e-voting/app/server/apidocs"
	"e-voting/app/server/credentials"
	"e-voting/app/server/events"
	"e-voting/app/server/gate"
	"e-voting/app/server/handlers"
	"e-voting/app/server/inits"
	"e-voting/app/server/jwt"
	"e-voting/app/server/ledger"
	"e-voting/app/server/sessions"
	"e-voting/app/server/voting"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer func() { _ = l.Sync() }()

	l.Debug("logger initialized")

	db, err := inits.DB(cfg)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}
	if rdb == nil {
		l.Info("no REDIS_CONN, sessions are checked against the database only")
	}

	j, err := jwt.New(cfg.Security.SignatureSecretKey, cfg.Security.TokenExpiresIn)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	var publisher events.Publisher = events.Nop{}
	kw := inits.Kafka(cfg)
	if kw != nil {
		publisher = events.NewKafkaPublisher(kw)
	}

	reg := sessions.New(l.Named("sessions"), db, rdb, j)
	g := gate.New(j, reg)
	coord := voting.New(l.Named("voting"), db, reg, publisher,
		cfg.Vote.TxTimeout, &sql.TxOptions{Isolation: cfg.Vote.TxIsolation})

	handlerApp := handlers.NewApp(l, credentials.New(db, reg), reg, ledger.New(db), coord)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())

	handlers.RegisterHandlers(e, handlerApp, g)

	if !cfg.System.IsProd {
		if spec, err := apidocs.Spec(context.Background()); err != nil {
			l.Error("error initializing api docs", zap.Error(err))
		} else {
			e.Pre(apidocs.Doc("/api", spec))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := e.Start(cfg.System.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		l.Info("shutting down the server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var errs []error
		if err := e.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
		}
		if kw != nil {
			if err := kw.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close kafka writer: %w", err))
			}
		}
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close redis: %w", err))
			}
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close database: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	if err := eg.Wait(); err != nil {
		l.Fatal("server stopped with error", zap.Error(err))
	}
}
