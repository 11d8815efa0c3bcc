package bootstrap

import (
	"context"
	"fmt"
	"log"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/controller"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/memory"
	redisrepo "notekeeper-be/internal/repository/redis"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/service"
	"notekeeper-be/internal/session"
	"notekeeper-be/pkg/events"
	pktNats "notekeeper-be/pkg/nats"
	"notekeeper-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController  controller.INoteController
	AuthController  controller.IAuthController
	UserController  controller.IUserController
	AdminController controller.IAdminController

	// Session resolution for the server middleware
	SessionManager *session.Manager
	UserService    service.IUserService
	Logger         logger.ILogger

	// Background Services (Exposed for main.go to run)
	AuditService service.IAuditService

	closers []func() error
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	ctx := context.Background()

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	c := &Container{Logger: sysLogger}
	c.closers = append(c.closers, auditLogger.Sync)

	// 2. Media storage
	var store storage.Storage
	switch cfg.Storage.Driver {
	case "minio":
		m := cfg.Storage.Minio
		minioStore, err := storage.NewMinioStorage(ctx, m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.UseSSL)
		if err != nil {
			return nil, err
		}
		store = minioStore
	case "local", "":
		localStore, err := storage.NewLocalStorage(cfg.Storage.MediaRoot, cfg.Storage.MediaURL)
		if err != nil {
			return nil, err
		}
		store = localStore
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	mediaService := service.NewMediaService(store, cfg.Storage.FallbackImage, cfg.Storage.MaxUploadSize)
	if err := mediaService.EnsureFallback(ctx); err != nil {
		return nil, fmt.Errorf("failed to provision fallback image: %w", err)
	}

	// 3. Sessions
	var sessionRepo contract.SessionRepository
	switch cfg.Session.Store {
	case "redis":
		opt, err := redis.ParseURL(cfg.Session.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.Session.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, rdb.Close)
		sessionRepo = redisrepo.NewSessionRepository(rdb)
	case "memory", "":
		sessionRepo = memory.NewSessionRepository()
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Session.Store)
	}
	sessionManager := session.NewManager(sessionRepo, session.NewTokenSigner(cfg.Session.Secret), cfg.Session.TTL)
	c.SessionManager = sessionManager

	// 4. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, pubSub.Close)

	// The NATS publisher is optional. Only a live one is handed out so
	// services can test the interface against nil.
	var eventPublisher events.Publisher
	if cfg.Events.NatsEnable {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	c.AuditService = service.NewAuditService(pubSub, cfg.Events.Topic, auditLogger, eventPublisher)

	noteService := service.NewNoteService(uowFactory, mediaService, publisherService, sysLogger)
	authService := service.NewAuthService(uowFactory, sessionManager, eventPublisher, sysLogger)
	userService := service.NewUserService(uowFactory, mediaService, sessionManager, eventPublisher, sysLogger)
	adminService := service.NewAdminService(uowFactory, sysLogger)

	// 6. Controllers
	cookie := controller.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	}
	c.UserService = userService
	c.NoteController = controller.NewNoteController(noteService)
	c.AuthController = controller.NewAuthController(authService, cookie)
	c.UserController = controller.NewUserController(userService, cookie)
	c.AdminController = controller.NewAdminController(adminService)

	return c, nil
}

// Close releases the bus, external connections and log files.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("[WARN] close: %v", err)
		}
	}
	_ = c.Logger.Sync()
}
