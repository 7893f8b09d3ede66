package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	_ "github.com/lib/pq"

	"github.com/certiblock/verifier-node/internal/api"
	"github.com/certiblock/verifier-node/internal/config"
	"github.com/certiblock/verifier-node/internal/contentstore"
	"github.com/certiblock/verifier-node/internal/core/services"
	"github.com/certiblock/verifier-node/internal/db"
	"github.com/certiblock/verifier-node/internal/gateways"
	"github.com/certiblock/verifier-node/internal/health"
	"github.com/certiblock/verifier-node/internal/log"
	"github.com/certiblock/verifier-node/internal/redis"
	"github.com/certiblock/verifier-node/internal/repositories"
	"github.com/certiblock/verifier-node/internal/session"
	"github.com/certiblock/verifier-node/pkg/blockchain/eth"
	"github.com/certiblock/verifier-node/pkg/cache"
	"github.com/certiblock/verifier-node/pkg/pubsub"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Error(context.Background(), "cannot load config", "err", err)
		os.Exit(1)
	}

	// Context with log
	ctx := log.NewContext(context.Background(), cfg.Log.Level, cfg.Log.Mode, os.Stdout)

	storage, err := db.NewStorage(cfg.Database.URL)
	if err != nil {
		log.Error(ctx, "cannot connect to database", "err", err)
		os.Exit(1)
	}
	defer func() { _ = storage.Close() }()

	cachex := cache.NewMemoryCache()
	ps := pubsub.NewMock()
	healthPingers := []health.Ping{storage.Pgx}
	if cfg.Cache.Provider == config.CacheProviderRedis {
		rdb, err := redis.Open(ctx, cfg.Cache.URL)
		if err != nil {
			log.Error(ctx, "cannot connect to redis", "err", err, "host", cfg.Cache.URL)
			os.Exit(1)
		}
		cachex = cache.NewRedisCache(rdb)
		ps = pubsub.NewRedis(rdb)
		healthPingers = append(healthPingers, redis.NewWrapper(rdb))
	}

	ethConn, err := ethclient.Dial(cfg.Ledger.URL)
	if err != nil {
		log.Error(ctx, "cannot connect to the ledger rpc node", "err", err, "url", cfg.Ledger.URL)
		os.Exit(1)
	}
	ethClient := eth.NewClient(ethConn, &eth.ClientConfig{RPCResponseTimeout: cfg.Ledger.RPCResponseTimeout})
	registry, err := eth.NewRegistry(ethClient, common.HexToAddress(cfg.Ledger.ContractAddress))
	if err != nil {
		log.Error(ctx, "cannot bind the credential registry contract", "err", err)
		os.Exit(1)
	}

	store := contentstore.NewIPFS(cfg.ContentStore.GatewayURL, cfg.ContentStore.FetchTimeout)
	ocr := gateways.NewOCR(cfg.Ocr)
	vision := gateways.NewVision(cfg.Vision)
	directory := gateways.NewDirectory(cfg.Directory, cachex)

	credentialsRepo := repositories.NewCredentials(storage)
	accessCodesRepo := repositories.NewAccessCodes(storage)

	integrity := services.NewContentIntegrity(store)
	verifier := services.NewLedgerVerify(registry, integrity, directory)
	locator := services.NewEvidenceLocator(accessCodesRepo, credentialsRepo, ocr, vision, directory, cfg.Directory.SubjectSearchMax)
	comparer := services.NewComparisonEngine(ocr, vision)
	runs := session.Cached(cachex, cfg.Verifier.RunTTL)
	orchestrator := services.NewOrchestrator(locator, verifier, comparer, store, runs, ps, cfg.Verifier)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: api.NewServer(orchestrator, health.New(healthPingers...)).Routes(ctx),
	}
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info(ctx, fmt.Sprintf("server started on port:%d", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "starting http server", "err", err)
		}
	}()

	<-quit
	log.Info(ctx, "Shutting down")
	if err := server.Shutdown(context.Background()); err != nil {
		log.Error(ctx, "shutting down http server", "err", err)
	}
}
