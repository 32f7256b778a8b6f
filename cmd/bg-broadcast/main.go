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

	redisClient "github.com/go-redis/redis/v8"

	"github.com/dboots/bg-broadcast/internal/api"
	"github.com/dboots/bg-broadcast/internal/api/handlers"
	"github.com/dboots/bg-broadcast/internal/config"
	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/internal/infrastructure/bgg"
	"github.com/dboots/bg-broadcast/internal/infrastructure/firestore"
	"github.com/dboots/bg-broadcast/internal/infrastructure/memory"
	"github.com/dboots/bg-broadcast/internal/infrastructure/mysql"
	"github.com/dboots/bg-broadcast/internal/infrastructure/redis"
	"github.com/dboots/bg-broadcast/internal/infrastructure/websocket"
	"github.com/dboots/bg-broadcast/internal/repository"
	"github.com/dboots/bg-broadcast/internal/services"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

// closers run in reverse order on shutdown.
type closers []func() error

func (c closers) closeAll(log logger.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			log.Error("Failed to close resource", "error", err)
		}
	}
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logger.New().Fatal("Failed to load config", "error", err)
	}

	log := logger.NewWithLevel(cfg.Log.Level)
	log.Info("Starting bg-broadcast", "config", cfg.GetConfigString())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cleanup closers

	store, storeClosers, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open document store", "driver", cfg.Store.Driver, "error", err)
	}
	cleanup = append(cleanup, storeClosers...)

	if cfg.Store.SeedFile != "" {
		n, err := repository.SeedFile(ctx, store, cfg.Store.SeedFile)
		if err != nil {
			log.Fatal("Failed to seed document store", "file", cfg.Store.SeedFile, "error", err)
		}
		log.Info("Seeded document store", "file", cfg.Store.SeedFile, "documents", n)
	}

	var rdb *redisClient.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "address", cfg.Redis.Address, "error", err)
		}
		cleanup = append(cleanup, rdb.Close)
		log.Info("Connected to Redis", "address", cfg.Redis.Address)
	}

	listingRepo := repository.NewListingRepository(store)
	auctionRepo := repository.NewAuctionRepository(store)
	profileRepo := repository.NewProfileRepository(store)
	sessionRepo := repository.NewSessionRepository(store)

	var (
		eventPublisher  domain.EventPublisher
		eventSubscriber domain.EventSubscriber
	)
	if rdb != nil {
		eventPublisher = redis.NewEventPublisher(rdb)
		eventSubscriber = redis.NewRedisEventSubscriber(rdb, log)
	} else {
		bus := memory.NewEventBus(log)
		eventPublisher = bus
		eventSubscriber = bus
	}

	locker, err := newLocker(cfg.Bidding, rdb, log)
	if err != nil {
		log.Fatal("Failed to configure bid lock", "error", err)
	}

	increment, err := services.ParseIncrement(cfg.Bidding.DefaultIncrement)
	if err != nil {
		log.Fatal("Invalid default bid increment", "value", cfg.Bidding.DefaultIncrement, "error", err)
	}
	resolver := services.NewBidResolver(increment)

	// gameCache must stay a nil interface when caching is off.
	var gameCache domain.GameCache
	if rdb != nil && cfg.BGG.CacheTTL > 0 {
		gameCache = redis.NewRedisGameCache(rdb, cfg.BGG.CacheTTL)
	}

	slugs, err := services.LoadSlugGenerator(cfg.Slug.WordsFile)
	if err != nil {
		log.Fatal("Failed to load slug words", "file", cfg.Slug.WordsFile, "error", err)
	}

	bidService := services.NewBidService(listingRepo, auctionRepo, resolver, locker, eventPublisher, log)
	auctionService := services.NewAuctionService(auctionRepo, listingRepo, resolver, eventPublisher, log)
	catalogService := services.NewCatalogService(bgg.NewClient(cfg.BGG.BaseURL, cfg.BGG.Timeout, log),
		gameCache, cfg.BGG.SearchDelay, log)
	profileService := services.NewProfileService(profileRepo, listingRepo, log)
	sessionService := services.NewSessionService(sessionRepo, profileRepo, slugs, catalogService,
		cfg.Sessions.DefaultZip, cfg.Sessions.DefaultMaxDistance, log)

	connManager := websocket.NewConnectionManager(log)
	eventListener := services.NewEventListener(listingRepo, websocket.NewWebSocketNotifier(connManager), log)
	closer := services.NewCronAuctionCloser(cfg.Scheduler.CloseSpec, auctionService, log)

	e := api.NewRouter(api.Handlers{
		Catalog:   handlers.NewCatalogHandler(catalogService, log),
		Listings:  handlers.NewListingHandler(bidService, log),
		Auctions:  handlers.NewAuctionHandler(auctionService, log),
		Profiles:  handlers.NewProfileHandler(profileService, log),
		Sessions:  handlers.NewSessionHandler(sessionService, slugs, log),
		WebSocket: handlers.NewWebSocketHandlers(websocket.NewWebSocketHandler(bidService, connManager, log)),
	}, log)

	// Start background services
	go func() {
		if err := eventListener.Start(ctx, eventSubscriber); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Event listener stopped", "error", err)
		}
	}()

	if err := closer.Start(ctx); err != nil {
		log.Fatal("Failed to start auction closer", "spec", cfg.Scheduler.CloseSpec, "error", err)
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down bg-broadcast...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	closer.Stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	cleanup.closeAll(log)

	log.Info("bg-broadcast stopped")
}

// loadConfig reads CONFIG_FILE when set, otherwise searches the default
// config locations.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (domain.DocumentStore, closers, error) {
	switch cfg.Store.Driver {
	case "", "memory":
		log.Info("Using in-memory document store")
		return memory.NewDocumentStore(), nil, nil

	case "mysql":
		db, err := mysql.Open(ctx, cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		store := mysql.NewMySQLDocumentStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("Connected to MySQL")
		return store, closers{db.Close}, nil

	case "firestore":
		client, err := firestore.NewClient(ctx, cfg.Firestore)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Connected to Firestore", "project_id", cfg.Firestore.ProjectID)
		return firestore.NewFirestoreDocumentStore(client), closers{client.Close}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func newLocker(cfg config.BiddingConfig, rdb *redisClient.Client, log logger.Logger) (domain.ListingLocker, error) {
	switch cfg.Lock {
	case "", "none":
		return services.NoopLocker{}, nil
	case "local":
		return services.NewLocalLocker(), nil
	case "redis":
		if rdb == nil {
			return nil, errors.New("bidding.lock=redis requires redis.enabled")
		}
		return redis.NewRedisListingLock(rdb, cfg.LockTTL, log), nil
	}
	return nil, fmt.Errorf("unknown bid lock %q", cfg.Lock)
}
