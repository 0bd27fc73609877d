package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lamic-ufsm/patrimonio/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Assets *handlers.AssetHandler
	Export *handlers.ExportHandler
	Chat   *handlers.ChatHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	// Rooms travel percent-encoded in the path and may contain reserved characters.
	r.UseRawPath = true
	r.UnescapePathValues = true

	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/salas/", h.Assets.ListRooms)
	r.GET("/patrimonios/", h.Assets.List)
	r.POST("/patrimonios/", h.Assets.Create)
	r.PUT("/patrimonios/:room/:id", h.Assets.Update)
	r.DELETE("/patrimonios/:room/:id", h.Assets.Delete)

	r.GET("/exportar_excel", h.Export.Spreadsheet)
	r.GET("/exportar_pdf", h.Export.Document)
	r.GET("/resumo", h.Export.Summary)

	r.POST("/chat", h.Chat.Chat)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
