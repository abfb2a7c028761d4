package provider

import (
	"github.com/quickkart/quickkart/internal/cache"
	"github.com/quickkart/quickkart/internal/config"
	"github.com/quickkart/quickkart/internal/logger"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/queue"
	"github.com/quickkart/quickkart/internal/repository"
	"github.com/quickkart/quickkart/internal/service"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo        repository.UserRepository
	VerifyTokenRepo repository.EmailVerifyTokenRepository
	ProductRepo     repository.ProductRepository
	CartRepo        repository.CartRepository
	OrderRepo       repository.OrderRepository
	StoreRecordRepo repository.StoreRecordRepository

	// Services
	MirrorStore     *service.MirrorStore
	EmailService    *service.EmailService
	CaptchaService  *service.CaptchaService
	UserAuthService *service.UserAuthService
	CatalogService  *service.CatalogService
	CartService     *service.CartService
	OrderService    *service.OrderService
	CheckoutService *service.CheckoutService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.VerifyTokenRepo = repository.NewEmailVerifyTokenRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.StoreRecordRepo = repository.NewStoreRecordRepository(db)
}

func (c *Container) initServices() {
	c.MirrorStore = service.NewMirrorStore(c.StoreRecordRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UserAuthService = service.NewUserAuthService(
		c.Config,
		c.UserRepo,
		c.VerifyTokenRepo,
		c.EmailService,
		c.QueueClient,
		c.MirrorStore,
	)
	c.CatalogService = service.NewCatalogService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.MirrorStore)
	c.OrderService = service.NewOrderService(c.OrderRepo)
	c.CheckoutService = service.NewCheckoutService(
		&c.Config.Checkout,
		models.DB,
		c.CartRepo,
		c.OrderRepo,
		c.UserRepo,
		c.MirrorStore,
		c.QueueClient,
		c.EmailService,
	)
}
