package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"defi_assistant/internal/app/service"
	"defi_assistant/internal/config"
	"defi_assistant/internal/infrastructure/httpclient"
	clientprovider "defi_assistant/internal/infrastructure/network/client"
	"defi_assistant/internal/infrastructure/pricecache"
	"defi_assistant/internal/infrastructure/restapi"
	"defi_assistant/internal/pkg/logger"
	"defi_assistant/internal/pkg/utils"
	"defi_assistant/pkg/metrics"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	// Early logger for the window before config is loaded
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	slogHandler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(slogHandler))

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	appLogger := logger.NewSlogAdapter()

	rpcAPIKey := utils.GetEnv("RPC_API_KEY", "")
	if rpcAPIKey == "" {
		zapLogger.Warn("RPC_API_KEY is not set, balance fetches will fail")
	}
	balanceFetcher := clientprovider.NewAlchemyFetcher(
		cfg.RPC.EndpointTemplate,
		rpcAPIKey,
		time.Duration(cfg.RPC.RequestTimeoutSeconds)*time.Second,
		zapLogger.Named("AlchemyFetcher"),
	)
	zapLogger.Info("Balance fetcher initialized")

	pricingTimeout := time.Duration(cfg.Pricing.RequestTimeoutMillis) * time.Millisecond
	coinPriceClient := httpclient.NewCoinPriceClient(
		cfg.Pricing.CoinPriceBaseURL,
		pricingTimeout,
		zapLogger.Named("CoinPriceClient"),
	)
	contractPriceClient := httpclient.NewContractPriceClient(
		cfg.Pricing.ContractPriceBaseURL,
		pricingTimeout,
		zapLogger.Named("ContractPriceClient"),
	)
	zapLogger.Info("Price provider clients initialized")

	priceCache := pricecache.New(cfg.Pricing.CacheFile, appLogger)
	zapLogger.Info("Price cache loaded", zap.String("file", cfg.Pricing.CacheFile))

	priceResolver := service.NewPriceResolver(priceCache, coinPriceClient, contractPriceClient, appLogger, cfg)
	walletService := service.NewWalletService(balanceFetcher, priceResolver, appLogger, cfg)
	zapLogger.Info("Wallet service initialized")

	swapRouterClient := httpclient.NewSwapRouterClient(
		cfg.Swap.BaseURL,
		utils.GetEnv("SWAP_API_KEY", ""),
		cfg.Swap.UniquePID,
		time.Duration(cfg.Swap.RequestTimeoutMillis)*time.Millisecond,
		zapLogger.Named("SwapRouterClient"),
	)
	swapService := service.NewSwapService(swapRouterClient, appLogger, cfg)
	zapLogger.Info("Swap service initialized")

	llmClient := httpclient.NewLLMClient(
		cfg.LLM.BaseURL,
		cfg.LLM.Model,
		utils.GetEnv("LLM_API_KEY", ""),
		time.Duration(cfg.LLM.RequestTimeoutMillis)*time.Millisecond,
		zapLogger.Named("LLMClient"),
	)
	intentService := service.NewIntentService(llmClient, appLogger)
	zapLogger.Info("Intent service initialized")

	rpcHandler := restapi.NewRPCHandler(walletService, swapService, appLogger)
	aiHandler := restapi.NewAIHandler(intentService, appLogger)
	router := restapi.SetupRouter(rpcHandler, aiHandler, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
