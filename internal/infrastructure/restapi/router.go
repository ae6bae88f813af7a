package restapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter wires the HTTP surface: the wallet/swap endpoints under /rpc,
// the assistant endpoint under /ai, and the service-level probes.
func SetupRouter(rpcHandler *RPCHandler, aiHandler *AIHandler, zapLogger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(zapLogger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the DeFi Transaction Assistant API"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "DeFi Transaction Assistant"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rpc := router.Group("/rpc")
	{
		rpc.POST("/info", rpcHandler.InfoHandler)
		rpc.POST("/price", rpcHandler.PriceHandler)
	}

	ai := router.Group("/ai")
	{
		ai.POST("/chat", aiHandler.ChatHandler)
	}

	return router
}

// RequestLogger logs one line per request with latency and status.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
