package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsroom/app/config"
	"newsroom/app/logging"
	"newsroom/app/queue"
	"newsroom/app/repositories"

	"github.com/sirupsen/logrus"
)

// ErrBrokerRequired stops the posts and reviews services from starting without a
// broker by accident
var ErrBrokerRequired = errors.New("AMQP_URL is required unless STANDALONE=true")

// openBroker dials RabbitMQ when configured. Otherwise only the comment service or an
// explicitly standalone service gets the in-process broker.
func openBroker(cfg config.Config, log *logrus.Entry) (queue.Broker, error) {
	if cfg.AMQPURL != "" {
		return queue.DialAMQP(cfg.AMQPURL, log)
	}
	if cfg.Service != config.ServiceComments && !cfg.Standalone {
		return nil, fmt.Errorf("%w: %s service", ErrBrokerRequired, cfg.Service)
	}
	if cfg.Service != config.ServiceComments {
		log.Warn("running standalone: queue events are discarded and no other service hears from this one")
	}
	return queue.NewMemoryBroker(log), nil
}

// RunAppServer serves one service until SIGINT or SIGTERM and returns an exit code
func RunAppServer(cfg config.Config) int {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Error("invalid logging configuration")
		return 1
	}
	log := logging.Component(logger, cfg.Service+"-service")

	store, err := repositories.Open(cfg.DBPath, logging.Component(logger, "badger"))
	if err != nil {
		log.WithError(err).Error("failed to open database")
		return 1
	}
	defer store.Close()

	broker, err := openBroker(cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to connect to broker")
		return 1
	}
	defer broker.Close()

	app, err := Build(cfg, store, broker, log)
	if err != nil {
		log.WithError(err).Error("failed to build service")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers := app.Start(ctx)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("listening")
		serveErr <- srv.ListenAndServe()
	}()

	code := 0
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
			code = 1
		}
		stop()
	case <-ctx.Done():
		log.Info("shutting down")
	}

	if err := shutdown(srv, cfg.ShutdownTimeout); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		code = 1
	}
	<-workers
	log.Info("stopped")
	return code
}

func shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
