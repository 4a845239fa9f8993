package main

import (
	"context"
	"log"
	"time"

	"shopforge/internal/config"
	"shopforge/internal/controllers/http"
	mmysql "shopforge/internal/infra/mysql"
	"shopforge/internal/infra/paystack"
	"shopforge/internal/infra/rabbitmq"
	mysqlrepo "shopforge/internal/repository/mysql"
	"shopforge/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.FromEnv()

	db, err := mmysql.NewMySQL(cfg)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	cartRepo := mysqlrepo.NewCartRepository(db)
	productRepo := mysqlrepo.NewProductRepository(db)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	gateway := paystack.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey, cfg.GatewayTimeout)

	var redisClient *redis.Client
	if cfg.RedisHost != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisHost + ":6379",
			DB:           0,
			PoolSize:     100,
			MinIdleConns: 10,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()
	}

	productCache := services.NewProductCache(productRepo)
	if redisClient != nil {
		productCache.SetRedisClient(redisClient)

		go func() {
			time.Sleep(5 * time.Second)
			if err := productCache.Warmup(context.Background()); err != nil {
				log.Printf("Failed to warm up product cache: %v", err)
			} else {
				log.Println("Product cache warmed up")
			}
		}()
	}

	cartService := services.NewCartService(cartRepo, productCache)
	orderService := services.NewOrderService(orderRepo, cartRepo, productCache, publisher, cfg)
	paymentService := services.NewPaymentService(orderRepo, gateway, publisher, cfg.CurrencyCode)

	handler := http.NewHandler(cartService, orderService, paymentService, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	log.Printf("Starting storefront service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
