package http

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"miniblog/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// Toda ruta que muta estado pasa por el middleware JWT.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	userH *UserHandler,
	postH *PostHandler,
	commentH *CommentHandler,
	staticDir string,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging y recovery. El content-type JSON se
	// aplica por grupo para no pisar los assets estaticos.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	authRequired := JWTAuthMiddleware(jwtSvc)
	authOptional := OptionalJWTAuthMiddleware(jwtSvc)
	jsonResponses := jsonContentTypeMiddleware()

	users := r.Group("/users", jsonResponses)
	users.POST("", userH.Register)

	auth := r.Group("/auth", jsonResponses)
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.RefreshToken)
	auth.POST("/logout", userH.Logout)

	posts := r.Group("/posts", jsonResponses)
	posts.GET("", postH.ListFeed)
	posts.GET("/:id", authOptional, postH.GetPost)
	posts.GET("/:id/comments", commentH.ListComments)
	posts.POST("", authRequired, postH.CreatePost)
	posts.DELETE("/:id", authRequired, postH.DeletePost)
	posts.POST("/:id/comments", authRequired, commentH.CreateComment)
	posts.POST("/:id/like", authRequired, postH.LikePost)
	posts.DELETE("/:id/like", authRequired, postH.UnlikePost)

	if staticDir != "" {
		registerStatic(r, staticDir)
	}

	return r
}

// registerStatic sirve el front end compilado con fallback a index.html
// para que el routing del lado del cliente funcione en recargas.
func registerStatic(r *gin.Engine, dir string) {
	r.StaticFile("/", filepath.Join(dir, "index.html"))
	r.Static("/assets", filepath.Join(dir, "assets"))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
