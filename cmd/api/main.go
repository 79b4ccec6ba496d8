package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	appcatalog "github.com/cleardrip/cleardrip/internal/application/catalog"
	apppayment "github.com/cleardrip/cleardrip/internal/application/payment"
	appproduct "github.com/cleardrip/cleardrip/internal/application/product"
	appuser "github.com/cleardrip/cleardrip/internal/application/user"
	"github.com/cleardrip/cleardrip/internal/domain/product"
	"github.com/cleardrip/cleardrip/internal/domain/user"
	"github.com/cleardrip/cleardrip/internal/infrastructure/config"
	"github.com/cleardrip/cleardrip/internal/infrastructure/gateway/razorpay"
	"github.com/cleardrip/cleardrip/internal/infrastructure/notification"
	"github.com/cleardrip/cleardrip/internal/infrastructure/persistence/mysql"
	"github.com/cleardrip/cleardrip/internal/infrastructure/persistence/redis"
	"github.com/cleardrip/cleardrip/internal/interface/http/handler"
	"github.com/cleardrip/cleardrip/internal/interface/http/middleware"
	"github.com/cleardrip/cleardrip/pkg/jwt"
	"github.com/cleardrip/cleardrip/pkg/logger"
	"github.com/cleardrip/cleardrip/pkg/metrics"
	"github.com/cleardrip/cleardrip/pkg/mq"
	"github.com/cleardrip/cleardrip/pkg/response"
	"github.com/cleardrip/cleardrip/pkg/tracing"
)

// main API服务入口
// 说明：手动依赖注入（wire.go中有等价的Wire定义）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志（之后统一使用zap.L()）
	zlog, err := logger.Init(cfg.Log.Level, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	zap.L().Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("db", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()))

	// 3. 初始化指标与链路追踪
	metrics.InitMetrics()
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("cleardrip-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				zap.L().Warn("关闭链路追踪失败", zap.Error(err))
			}
		}()
	}

	// 4. 初始化基础设施连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "topic")
	if err != nil {
		log.Fatalf("初始化RabbitMQ失败: %v", err)
	}
	defer publisher.Close() //nolint:errcheck

	// 5. 依赖注入（手动组装）
	// 依赖链：Repository ← Service/Strategy ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	serviceRepo := mysql.NewServiceRepository(db)
	bookingRepo := mysql.NewBookingRepository(db)
	planRepo := mysql.NewPlanRepository(db)
	subscriptionRepo := mysql.NewSubscriptionRepository(db)
	orderRepo := mysql.NewPaymentOrderRepository(db)
	txnRepo := mysql.NewTransactionRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
	gateway := razorpay.NewClient(cfg.Razorpay)
	notifier := notification.NewNotifier(publisher)

	// 领域层
	userService := user.NewService(userRepo)
	productService := product.NewService(productRepo)

	// 用途策略（商品购买/服务预订/订阅）
	registry := apppayment.NewPurposeRegistry(
		apppayment.NewProductPurchaseStrategy(productRepo),
		apppayment.NewServiceBookingStrategy(serviceRepo, bookingRepo),
		apppayment.NewSubscriptionStrategy(planRepo, subscriptionRepo),
	)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	publishProductUseCase := appproduct.NewPublishProductUseCase(productService)
	listProductsUseCase := appproduct.NewListProductsUseCase(productService)
	listServicesUseCase := appcatalog.NewListServicesUseCase(serviceRepo)
	listPlansUseCase := appcatalog.NewListPlansUseCase(planRepo)
	createOrderUseCase := apppayment.NewCreateOrderUseCase(registry, gateway, orderRepo)
	verifyPaymentUseCase := apppayment.NewVerifyPaymentUseCase(
		orderRepo, txnRepo, userRepo, registry, gateway, txManager, notifier)
	cancelPaymentUseCase := apppayment.NewCancelPaymentUseCase(orderRepo, registry, txManager)
	listOrdersUseCase := apppayment.NewListOrdersUseCase(orderRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase)
	productHandler := handler.NewProductHandler(publishProductUseCase, listProductsUseCase)
	catalogHandler := handler.NewCatalogHandler(listServicesUseCase, listPlansUseCase)
	paymentHandler := handler.NewPaymentHandler(
		cfg.Razorpay.KeyID,
		createOrderUseCase, verifyPaymentUseCase, cancelPaymentUseCase, listOrdersUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 6. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	registerRoutes(r, userHandler, productHandler, catalogHandler, paymentHandler, authMiddleware)

	// 7. 启动服务（支持优雅停机）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("启动服务失败", zap.Error(err))
		}
	}()

	// 等待停止信号
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	// 给在途请求10秒的排空窗口
	zap.L().Info("收到停止信号，开始优雅停机")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("优雅停机失败", zap.Error(err))
	}
	zap.L().Info("服务已停止")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	catalogHandler *handler.CatalogHandler,
	paymentHandler *handler.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 商品模块
		products := v1.Group("/products")
		{
			// 公开接口
			products.GET("", productHandler.ListProducts)
			// 上架(需要登录)
			products.POST("", authMiddleware.RequireAuth(), productHandler.PublishProduct)
		}

		// 目录模块(公开接口)
		v1.GET("/services", catalogHandler.ListServices)
		v1.GET("/plans", catalogHandler.ListPlans)

		// 支付模块
		payment := v1.Group("/payment")
		{
			// 回调核验不要求登录:由收银台回调触发,安全性靠HMAC签名保证
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
}
