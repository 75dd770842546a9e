package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/database/mongoclient"
	"github.com/x-xyz/auctionhouse/base/database/redisclient"
	"github.com/x-xyz/auctionhouse/base/env"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/metrics"
	bValidator "github.com/x-xyz/auctionhouse/base/validator"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/admin"
	"github.com/x-xyz/auctionhouse/domain/listing"
	mmiddleware "github.com/x-xyz/auctionhouse/middleware"
	"github.com/x-xyz/auctionhouse/service/custody"
	"github.com/x-xyz/auctionhouse/service/ledger"
	"github.com/x-xyz/auctionhouse/service/query"
	"github.com/x-xyz/auctionhouse/service/redis"
	admin_delivery "github.com/x-xyz/auctionhouse/stores/admin/delivery/http"
	admin_repository "github.com/x-xyz/auctionhouse/stores/admin/repository"
	admin_usecase "github.com/x-xyz/auctionhouse/stores/admin/usecase"
	event_delivery "github.com/x-xyz/auctionhouse/stores/event/delivery/http"
	event_repository "github.com/x-xyz/auctionhouse/stores/event/repository"
	event_usecase "github.com/x-xyz/auctionhouse/stores/event/usecase"
	hc_delivery "github.com/x-xyz/auctionhouse/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/auctionhouse/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/auctionhouse/stores/healthcheck/usecase"
	listing_delivery "github.com/x-xyz/auctionhouse/stores/listing/delivery/http"
	listing_repository "github.com/x-xyz/auctionhouse/stores/listing/repository"
	listing_usecase "github.com/x-xyz/auctionhouse/stores/listing/usecase"
)

func init() {
	env.Flags(pflag.CommandLine)
	pflag.String("issue-capability", "", "print an admin capability for the given address and exit")
}

func main() {
	pflag.Parse()
	if err := env.Load(viper.GetViper(), pflag.CommandLine); err != nil {
		panic(err)
	}
	if err := log.Init(log.Config{
		Level:       viper.GetString("log.level"),
		Development: viper.GetBool("debug"),
	}); err != nil {
		panic(err)
	}
	defer log.Sync()

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}

	context := ctx.Background()

	// init mongo client
	var mongoClient *mongoclient.Client
	var q query.Mongo
	if uri := viper.GetString("mongo.uri"); uri != "" {
		context.Info("init mongo")
		mongoClient = mongoclient.MustConnectMongoClient(mongoclient.Config{
			URI:                uri,
			AuthDBName:         viper.GetString("mongo.authDBName"),
			DbName:             viper.GetString("mongo.dbName"),
			SSL:                viper.GetBool("mongo.enableSSL"),
			SetSafe:            true,
			PoolSizeMultiplier: viper.GetFloat64("mongo.poolSizeMultiplier"),
		})
		q = query.New(mongoClient, viper.GetBool("mongo.checkIndex"))
		if err := event_repository.EnsureIndexes(context, q); err != nil {
			context.WithField("err", err).Warn("event_repository.EnsureIndexes failed")
		}
	}

	// init Redis service
	var redisCache redis.Service
	if uri := viper.GetString("redis.uri"); uri != "" {
		context.Info("init redis")
		redisName := viper.GetString("redis.name")
		redisPool := redisclient.MustConnectRedis(uri, viper.GetString("redis.password"), redisclient.RedisParam{
			PoolMultiplier: viper.GetFloat64("redis.poolMultiplier"),
			Retry:          true,
		})
		redisCache = redis.New(redisName, metrics.New(redisName), &redis.Pools{
			Src: redisPool,
		})
	}

	// admin
	feeDefault, err := defaultFee(viper.GetViper())
	if err != nil {
		context.WithFields(log.Fields{
			"err":           err,
			"feePercentage": viper.GetString("marketplace.feePercentage"),
		}).Panic("invalid marketplace.feePercentage")
	}
	var adminRepo admin.Repo = admin_repository.NewMemoryRepo()
	if redisCache != nil {
		adminRepo = admin_repository.NewRedisRepo(redisCache)
	}
	adminUsecase, err := admin_usecase.New(context, &admin_usecase.AdminUseCaseCfg{
		Repo:      adminRepo,
		JwtSecret: viper.GetString("admin.jwtSecret"),
		Admins:    toAddresses(viper.GetStringSlice("admin.addresses")),
		Default:       feeDefault,
		CapabilityTTL: viper.GetDuration("admin.capabilityTTL"),
	})
	if err != nil {
		context.WithField("err", err).Panic("admin_usecase.New failed")
	}

	if address := viper.GetString("issue-capability"); address != "" {
		tkn, err := adminUsecase.IssueCapability(context, domain.Address(address))
		if err != nil {
			context.WithField("err", err).Error("IssueCapability failed")
			os.Exit(1)
		}
		fmt.Println(tkn)
		return
	}

	// events
	sinks := []listing.EventSink{event_repository.NewLogSink()}
	var history listing.EventHistory
	if q != nil {
		mongoSink := event_repository.NewMongoSink(q)
		sinks = append(sinks, mongoSink)
		history = mongoSink
	} else {
		memorySink := event_repository.NewMemorySink(viper.GetInt("events.memoryHistory"))
		sinks = append(sinks, memorySink)
		history = memorySink
	}
	if redisCache != nil {
		sinks = append(sinks, event_repository.NewRedisSink(redisCache, viper.GetString("events.channel")))
	}
	dispatcher := event_usecase.New(&event_usecase.DispatcherCfg{
		Sinks:       sinks,
		QueueLength: viper.GetInt("events.queueLength"),
		Workers:     viper.GetInt("events.workers"),
		Metrics:     metrics.New("event"),
	})

	// collaborators
	marketplace := domain.Address(viper.GetString("marketplace.address"))
	registry := custody.New(marketplace)
	payments := ledger.New()
	if err := seed(context, viper.Sub("seed"), registry, payments); err != nil {
		context.WithField("err", err).Panic("seed failed")
	}

	listingUsecase := listing_usecase.New(&listing_usecase.AuctionUseCaseCfg{
		Repo:        listing_repository.NewMemoryRepo(),
		Custody:     registry,
		Payment:     payments,
		FeeConfig:   adminUsecase,
		Publisher:   dispatcher,
		Marketplace: marketplace,
		Metrics:     metrics.New("listing"),
	})

	hc := hc_usecase.New(hc_repo.New(mongoClient, redisCache))

	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.AddContext())
	e.Use(middL.ResponseLogger())
	e.Use(middL.CORS)
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	auth := mmiddleware.NewAuth(adminUsecase)
	hc_delivery.New(e, hc)
	listing_delivery.New(e, listingUsecase, auth)
	admin_delivery.New(e, adminUsecase, auth)
	event_delivery.New(e, history)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")

	ctx, cancel := ctx.WithTimeout(context, viper.GetDuration("server.shutdownTimeout"))
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}

	// requests are drained, flush the remaining events
	if err := dispatcher.Close(ctx); err != nil {
		log.Log().WithField("err", err).Error("dispatcher.Close failed")
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Log().WithField("err", err).Error("mongoClient.Disconnect failed")
		}
	}
}

func toAddresses(ss []string) []domain.Address {
	res := make([]domain.Address, 0, len(ss))
	for _, s := range ss {
		res = append(res, domain.Address(s))
	}
	return res
}
