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

	"github.com/0gfoundation/0g-compute-settlement/internal/broker"
	"github.com/0gfoundation/0g-compute-settlement/internal/chain"
	"github.com/0gfoundation/0g-compute-settlement/internal/config"
	"github.com/0gfoundation/0g-compute-settlement/internal/delegate"
	"github.com/0gfoundation/0g-compute-settlement/internal/session"
	"github.com/0gfoundation/0g-compute-settlement/internal/settlekey"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

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

	// ── Signature delegate (always mounted; remote wallets need it) ───────────
	del := delegate.New(time.Duration(cfg.Gateway.SignatureTimeoutSec) * time.Second)

	// ── Wallet: local key when configured, otherwise the delegation gateway ───
	var txSigner chain.TxSigner
	if cfg.Chain.PrivateKey != "" {
		local, err := chain.NewLocalSigner(cfg.Chain.PrivateKey)
		if err != nil {
			log.Fatal("wallet key parse failed", zap.Error(err))
		}
		txSigner = local
		log.Info("wallet mode: local key", zap.String("address", local.Address().Hex()))
	} else {
		if !common.IsHexAddress(cfg.Chain.OwnerAddress) {
			log.Fatal("remote wallet mode needs OWNER_ADDRESS")
		}
		addr := common.HexToAddress(cfg.Chain.OwnerAddress)
		txSigner = broker.NewRemoteSigner(addr, del)
		log.Info("wallet mode: remote signer", zap.String("address", addr.Hex()))
	}

	// ── Chain client ──────────────────────────────────────────────────────────
	onchain, err := chain.NewClient(cfg, txSigner)
	if err != nil {
		log.Fatal("chain client init failed", zap.Error(err))
	}

	// ── Broker ────────────────────────────────────────────────────────────────
	store := session.NewStore(rdb,
		time.Duration(cfg.Session.UserTTLSec)*time.Second,
		time.Duration(cfg.Session.SignerTTLSec)*time.Second)
	walletSign := func(message []byte) ([]byte, error) {
		return txSigner.SignText(ctx, message)
	}
	b := broker.New(txSigner.Address(), onchain, settlekey.WalletSign(walletSign), store, log)

	// ── HTTP server ───────────────────────────────────────────────────────────
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	broker.NewHandler(b, log).Register(api)
	delegate.NewHandler(del, log).Register(api)

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
