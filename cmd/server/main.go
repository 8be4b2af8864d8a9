package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/fitness-class-booking/internal/config"
	"github.com/iliyamo/fitness-class-booking/internal/database"
	"github.com/iliyamo/fitness-class-booking/internal/handler"
	"github.com/iliyamo/fitness-class-booking/internal/middleware"
	"github.com/iliyamo/fitness-class-booking/internal/queue"
	"github.com/iliyamo/fitness-class-booking/internal/repository"
	"github.com/iliyamo/fitness-class-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	types := repository.NewWorkoutTypeRepo(db)
	sessions := repository.NewSessionRepo(db)
	subs := repository.NewSubscriptionRepo(db)
	news := repository.NewNewsRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Redis backs the rate limiter and the response cache; without it both
	// middlewares degrade to pass-throughs.
	rdb := config.NewRedisClient()
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(sessions, types, users, news), cacheMW)
	router.RegisterMember(e, handler.NewMemberHandler(subs, sessions, users), cfg.JWTSecret, rateMW)
	router.RegisterTrainer(e, handler.NewTrainerHandler(sessions, subs), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(sessions, types, subs, users, news), cfg.JWTSecret)

	// Background consumer writing booking confirmations to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
