package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CollectivaT-dev/ladinobot/internal/config"
	"github.com/CollectivaT-dev/ladinobot/internal/logx"
	"github.com/CollectivaT-dev/ladinobot/internal/model"
	"github.com/CollectivaT-dev/ladinobot/internal/service"
)

// Exchanger 一次对话交换的处理入口
type Exchanger interface {
	Exchange(ctx context.Context, userID, source, text string) string
}

// HTTPServer 基于 Gin 的管理 API 服务器
type HTTPServer struct {
	config    *config.Config
	engine    *gin.Engine
	server    *http.Server
	pipeline  Exchanger
	chatLogs  *service.ChatLogService
	resources map[string]string
}

// NewHTTPServer 创建 HTTP 服务器
func NewHTTPServer(cfg *config.Config, pipeline Exchanger, chatLogs *service.ChatLogService, resources map[string]string) *HTTPServer {
	if cfg.Server.HTTP.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		config:    cfg,
		engine:    gin.New(),
		pipeline:  pipeline,
		chatLogs:  chatLogs,
		resources: resources,
	}

	s.registerMiddlewares()
	s.registerRoutes()

	return s
}

// registerMiddlewares 注册中间件
func (s *HTTPServer) registerMiddlewares() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.loggingMiddleware())
	s.engine.Use(s.corsMiddleware())
}

// loggingMiddleware 自定义日志中间件
func (s *HTTPServer) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logx.Info("HTTP request, method %s, path %s, status %d, duration %s, remote_addr %s",
			method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}

// corsMiddleware CORS 中间件
func (s *HTTPServer) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// authMiddleware Bearer Token 鉴权中间件,未配置 token 时放行
func (s *HTTPServer) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := s.config.Server.HTTP.AuthToken
		if token == "" {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if auth != "Bearer "+token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.Response{
				Code:    http.StatusUnauthorized,
				Message: "Unauthorized",
			})
			return
		}

		c.Next()
	}
}

// registerRoutes 注册路由
func (s *HTTPServer) registerRoutes() {
	v1 := s.engine.Group("/api/v1")
	{
		// 健康检查与版本无需鉴权
		v1.GET("/health", s.handleHealth)
		v1.GET("/version", s.handleVersion)

		authed := v1.Group("", s.authMiddleware())
		{
			authed.POST("/chat", s.handleChat)
			authed.GET("/logs", s.handleListLogs)
			authed.GET("/stats", s.handleStats)
			authed.GET("/knowledge", s.handleKnowledge)
		}
	}
}

// Start 启动 HTTP 服务器
func (s *HTTPServer) Start() error {
	addr := fmt.Sprintf("0.0.0.0:%d", s.config.Server.HTTP.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
	}

	logx.Info("Starting HTTP server, addr %s", addr)
	return s.server.ListenAndServe()
}

// Stop 停止 HTTP 服务器
func (s *HTTPServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// success 返回成功响应
func (s *HTTPServer) success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, model.Response{
		Code:    200,
		Message: "Success",
		Data:    data,
	})
}

// error 返回错误响应
func (s *HTTPServer) error(c *gin.Context, code int, message string) {
	c.JSON(code, model.Response{
		Code:    code,
		Message: message,
	})
}
