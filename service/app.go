package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"newsroom/app/authz"
	"newsroom/app/clients"
	"newsroom/app/config"
	"newsroom/app/consumers"
	"newsroom/app/controllers"
	"newsroom/app/events"
	"newsroom/app/models"
	"newsroom/app/queue"
	"newsroom/app/repositories"
	"newsroom/app/routes"
	"newsroom/app/services"

	"github.com/sirupsen/logrus"
)

// worker is a long running loop started next to the HTTP server
type worker struct {
	name string
	run  func(ctx context.Context) error
}

// App is one wired service: its router plus the background loops it needs
type App struct {
	Service string
	Handler http.Handler

	workers []worker
	log     *logrus.Entry
}

// Start launches the background loops. The returned channel closes once all of
// them have returned, which happens after ctx is done.
func (a *App) Start(ctx context.Context) <-chan struct{} {
	var wg sync.WaitGroup
	for _, w := range a.workers {
		wg.Add(1)
		go func(w worker) {
			defer wg.Done()
			if err := w.run(ctx); err != nil && ctx.Err() == nil {
				a.log.WithError(err).WithField("worker", w.name).Error("worker stopped")
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

// Build wires the service named by cfg.Service on top of store and broker
func Build(cfg config.Config, store *repositories.Store, broker queue.Broker, log *logrus.Entry) (*App, error) {
	switch cfg.Service {
	case config.ServicePosts:
		return buildPostApp(cfg, store, broker, log), nil
	case config.ServiceReviews:
		return buildReviewApp(cfg, store, broker, log), nil
	case config.ServiceComments:
		return buildCommentApp(store, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownService, cfg.Service)
	}
}

func buildPostApp(cfg config.Config, store *repositories.Store, broker queue.Broker, log *logrus.Entry) *App {
	db := store.DB()
	outbox := events.NewOutbox(db)
	ledger := events.NewLedger(db)

	posts := services.NewPostService(repositories.NewBadgerPostRepository(db), outbox, ledger, log)
	notifications := services.NewNotificationService(repositories.NewBadgerNotificationRepository(db))

	relay := events.NewRelay(outbox, cfg.RelayInterval, cfg.RelayRate, log)
	toPostQueue := queueDispatcher(cfg, broker, queue.PostQueue, log)
	relay.Register(events.KindPostCreated, toPostQueue)
	relay.Register(events.KindPostDeleted, toPostQueue)

	outcomes := consumers.NewReviewOutcomeConsumer(posts, log)

	controller := controllers.NewPostController(posts, notifications, log)
	return &App{
		Service: cfg.Service,
		Handler: routes.SetupPostRoutes(controller, authz.DefaultPolicy(), log),
		workers: []worker{
			{name: "outbox-relay", run: relay.Run},
			{name: "review-outcomes", run: func(ctx context.Context) error { return outcomes.Run(ctx, broker) }},
		},
		log: log,
	}
}

func buildReviewApp(cfg config.Config, store *repositories.Store, broker queue.Broker, log *logrus.Entry) *App {
	db := store.DB()
	outbox := events.NewOutbox(db)
	ledger := events.NewLedger(db)

	postClient := clients.NewPostClient(cfg.PostServiceURL, cfg.HTTPClientTimeout, cfg.PostCacheSize, cfg.PostCacheTTL, log)
	reviews := services.NewReviewService(
		repositories.NewBadgerReviewRepository(db),
		repositories.NewBadgerKnownPostRepository(db),
		postClient,
		outbox,
		ledger,
		log,
	)

	relay := events.NewRelay(outbox, cfg.RelayInterval, cfg.RelayRate, log)
	relay.Register(events.KindReviewOutcome, queueDispatcher(cfg, broker, queue.ReviewQueue, log))
	relay.Register(events.KindReviewNotification, deliverNotification(postClient))

	tracker := consumers.NewPostEventConsumer(reviews, log)

	controller := controllers.NewReviewController(reviews, log)
	return &App{
		Service: cfg.Service,
		Handler: routes.SetupReviewRoutes(controller, authz.DefaultPolicy(), log),
		workers: []worker{
			{name: "outbox-relay", run: relay.Run},
			{name: "post-events", run: func(ctx context.Context) error { return tracker.Run(ctx, broker) }},
		},
		log: log,
	}
}

func buildCommentApp(store *repositories.Store, log *logrus.Entry) *App {
	comments := services.NewCommentService(repositories.NewBadgerCommentRepository(store.DB()))
	controller := controllers.NewCommentController(comments, log)
	return &App{
		Service: config.ServiceComments,
		Handler: routes.SetupCommentRoutes(controller, authz.DefaultPolicy(), log),
		log:     log,
	}
}

// queueDispatcher publishes to queueName, or discards in standalone mode where no
// other service reads the in-process broker
func queueDispatcher(cfg config.Config, broker queue.Broker, queueName string, log *logrus.Entry) events.Dispatcher {
	if cfg.Standalone && cfg.AMQPURL == "" {
		return events.Discard(log)
	}
	return events.PublishTo(broker, queueName)
}

// deliverNotification posts a staged notification to the post service
func deliverNotification(client *clients.PostClient) events.Dispatcher {
	return func(ctx context.Context, event *events.Event) error {
		var notification models.NotificationRequest
		if err := json.Unmarshal(event.Payload, &notification); err != nil {
			return fmt.Errorf("failed to decode notification payload: %w", err)
		}
		return client.SendNotification(ctx, notification)
	}
}
