//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入（如Spring的@Autowired）不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appcatalog "github.com/cleardrip/cleardrip/internal/application/catalog"
	apppayment "github.com/cleardrip/cleardrip/internal/application/payment"
	appproduct "github.com/cleardrip/cleardrip/internal/application/product"
	appuser "github.com/cleardrip/cleardrip/internal/application/user"
	"github.com/cleardrip/cleardrip/internal/domain/booking"
	"github.com/cleardrip/cleardrip/internal/domain/product"
	"github.com/cleardrip/cleardrip/internal/domain/subscription"
	"github.com/cleardrip/cleardrip/internal/domain/user"
	"github.com/cleardrip/cleardrip/internal/infrastructure/config"
	"github.com/cleardrip/cleardrip/internal/infrastructure/gateway/razorpay"
	"github.com/cleardrip/cleardrip/internal/infrastructure/notification"
	"github.com/cleardrip/cleardrip/internal/infrastructure/persistence/mysql"
	"github.com/cleardrip/cleardrip/internal/infrastructure/persistence/redis"
	"github.com/cleardrip/cleardrip/internal/interface/http/handler"
	"github.com/cleardrip/cleardrip/internal/interface/http/middleware"
	"github.com/cleardrip/cleardrip/pkg/jwt"
	"github.com/cleardrip/cleardrip/pkg/mq"
	"github.com/cleardrip/cleardrip/pkg/response"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接、消息队列、支付网关
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
	providePublisher,
	provideRazorpayGateway,
	notification.NewNotifier, // 支付确认事件发布器
)

// repositorySet 仓储层依赖
// 包含：所有Repository的构造函数和事务管理器
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewProductRepository,
	mysql.NewServiceRepository,
	mysql.NewBookingRepository,
	mysql.NewPlanRepository,
	mysql.NewSubscriptionRepository,
	mysql.NewPaymentOrderRepository,
	mysql.NewTransactionRepository,
	mysql.NewTxManager,
	// 应用层依赖的是TxManager接口，这里把MySQL实现绑定上去
	wire.Bind(new(apppayment.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,    // 用户领域服务
	product.NewService, // 商品领域服务
)

// strategySet 支付用途策略
// 教学要点：注册表把"用途→策略"的分发收口到一处，
// 三条支付用例共享同一个Registry
var strategySet = wire.NewSet(
	provideRegistry,
)

// applicationSet 应用层依赖
// 包含：所有Use Case的构造函数
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appproduct.NewPublishProductUseCase,
	appproduct.NewListProductsUseCase,
	appcatalog.NewListServicesUseCase,
	appcatalog.NewListPlansUseCase,
	apppayment.NewCreateOrderUseCase,
	apppayment.NewVerifyPaymentUseCase,
	apppayment.NewCancelPaymentUseCase,
	apppayment.NewListOrdersUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewProductHandler,
	handler.NewCatalogHandler,
	providePaymentHandler,
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 有些依赖的构造参数要从Config中提取（Wire不会自动拆字段），
// 需要手写Provider

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// providePublisher 创建RabbitMQ发布器
func providePublisher(cfg *config.Config) (*mq.Publisher, error) {
	return mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "topic")
}

// provideRazorpayGateway 创建支付网关客户端（按接口返回，便于测试替身）
func provideRazorpayGateway(cfg *config.Config) razorpay.Gateway {
	return razorpay.NewClient(cfg.Razorpay)
}

// provideRegistry 组装用途策略注册表
func provideRegistry(
	productRepo product.Repository,
	serviceRepo booking.ServiceRepository,
	bookingRepo booking.BookingRepository,
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.Repository,
) *apppayment.PurposeRegistry {
	return apppayment.NewPurposeRegistry(
		apppayment.NewProductPurchaseStrategy(productRepo),
		apppayment.NewServiceBookingStrategy(serviceRepo, bookingRepo),
		apppayment.NewSubscriptionStrategy(planRepo, subscriptionRepo),
	)
}

// providePaymentHandler 支付处理器需要注入网关公钥
func providePaymentHandler(
	cfg *config.Config,
	createUseCase *apppayment.CreateOrderUseCase,
	verifyUseCase *apppayment.VerifyPaymentUseCase,
	cancelUseCase *apppayment.CancelPaymentUseCase,
	listUseCase *apppayment.ListOrdersUseCase,
) *handler.PaymentHandler {
	return handler.NewPaymentHandler(cfg.Razorpay.KeyID,
		createUseCase, verifyUseCase, cancelUseCase, listUseCase)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	catalogHandler *handler.CatalogHandler,
	paymentHandler *handler.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.POST("", authMiddleware.RequireAuth(), productHandler.PublishProduct)
		}

		v1.GET("/services", catalogHandler.ListServices)
		v1.GET("/plans", catalogHandler.ListPlans)

		payment := v1.Group("/payment")
		{
			payment.POST("/verify", paymentHandler.VerifyPayment)

			authed := payment.Group("")
			authed.Use(authMiddleware.RequireAuth())
			{
				authed.POST("/order", paymentHandler.CreateOrder)
				authed.POST("/cancel", paymentHandler.CancelPayment)
				authed.GET("/orders", paymentHandler.ListOrders)
			}
		}
	}

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// 依赖链示例：
// *gin.Engine → *handler.PaymentHandler → *apppayment.VerifyPaymentUseCase
// → payment.OrderRepository → *gorm.DB → *config.Config
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		strategySet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)

	// 占位返回，实际代码由wire_gen.go生成
	return nil, nil
}
