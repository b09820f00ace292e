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

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-compute-settlement/internal/chain"
	"github.com/0gfoundation/0g-compute-settlement/internal/config"
	"github.com/0gfoundation/0g-compute-settlement/internal/ledger"
	"github.com/0gfoundation/0g-compute-settlement/internal/prover"
	"github.com/0gfoundation/0g-compute-settlement/internal/provider"
	"github.com/0gfoundation/0g-compute-settlement/internal/session"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}
	if !common.IsHexAddress(cfg.Chain.ProviderAddress) {
		log.Fatal("PROVIDER_ADDRESS missing or malformed")
	}
	providerAddr := common.HexToAddress(cfg.Chain.ProviderAddress)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Redis ─────────────────────────────────────────────────────────────────
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis ping failed", zap.Error(err))
	}

	// ── Chain client (provider wallet submits settlements) ────────────────────
	signer, err := chain.NewLocalSigner(cfg.Chain.PrivateKey)
	if err != nil {
		log.Fatal("wallet key parse failed", zap.Error(err))
	}
	onchain, err := chain.NewClient(cfg, signer)
	if err != nil {
		log.Fatal("chain client init failed", zap.Error(err))
	}

	// ── Prover ────────────────────────────────────────────────────────────────
	prv := prover.NewClient(cfg.Prover.URL)

	// ── Intake engine ─────────────────────────────────────────────────────────
	store := session.NewStore(rdb,
		time.Duration(cfg.Session.UserTTLSec)*time.Second,
		time.Duration(cfg.Session.SignerTTLSec)*time.Second)
	engine := provider.NewEngine(providerAddr, rdb, store, onchain, log)

	// ── Settle loops, one per service queue ───────────────────────────────────
	go provider.Run(ctx, cfg, rdb, prv, onchain, ledger.ServiceInference, log)
	go provider.Run(ctx, cfg, rdb, prv, onchain, ledger.ServiceFineTuning, log)

	// ── HTTP server ───────────────────────────────────────────────────────────
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	provider.NewHandler(engine, log).Register(api)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	log.Info("shutdown complete")
}
