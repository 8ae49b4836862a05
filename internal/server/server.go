// Package server HTTP 接口
//
// 请求体按原样解码为草稿（数字保留为 json.Number），交给装配器统一校验；
// 校验失败返回 422 和完整的字段报告，存储层冲突映射为 409。
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "katydid-vehicle-market/docs"
	"katydid-vehicle-market/internal/cache"
	"katydid-vehicle-market/internal/config"
	"katydid-vehicle-market/internal/store"
	"katydid-vehicle-market/internal/token"
	"katydid-vehicle-market/pkg/assembler"
)

// Repository 处理器用到的存储操作，由 *store.Store 实现
type Repository interface {
	Ping(ctx context.Context) error
	CreateUser(ctx context.Context, u assembler.User, a assembler.Address) (*store.User, error)
	GetUser(ctx context.Context, id int64) (*store.User, error)
	ListCategories(ctx context.Context) ([]store.Category, error)
	CreateAdvertisement(ctx context.Context, ad assembler.VehicleAd) (*store.Advertisement, error)
	GetAdvertisement(ctx context.Context, id int64) (*store.Advertisement, error)
	ListAdvertisements(ctx context.Context, limit, offset int) ([]store.Advertisement, error)
	RecordSale(ctx context.Context, sale assembler.Sale) (*store.SalesRecord, error)
}

// Server HTTP 服务
type Server struct {
	cfg    config.ServerConfig
	repo   Repository
	ads    cache.AdCache
	tokens *token.Issuer
	log    *zap.Logger
	engine *gin.Engine
}

// New 创建服务并注册路由，ads 为 nil 时不使用缓存
func New(cfg config.ServerConfig, repo Repository, ads cache.AdCache, tokens *token.Issuer, log *zap.Logger) *Server {
	if ads == nil {
		ads = cache.Noop{}
	}
	s := &Server{
		cfg:    cfg,
		repo:   repo,
		ads:    ads,
		tokens: tokens,
		log:    log.Named("http"),
		engine: gin.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery(), requestID(), accessLog(s.log), rateLimit(s.cfg.RateLimit, s.cfg.RateBurst))

	r.GET("/healthz", s.healthz)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.POST("/users", s.createUser)
	v1.POST("/validate/:kind", s.validateField)
	v1.GET("/categories", s.listCategories)
	v1.GET("/ads", s.listAds)
	v1.GET("/ads/:id", optionalAuth(s.tokens), s.getAd)

	authed := v1.Group("", authenticate(s.tokens))
	authed.GET("/users/:id", s.getUser)
	authed.POST("/ads", s.createAd)
	authed.POST("/ads/:id/sale", s.recordSale)
}

// Handler 返回 http.Handler，便于测试
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 监听并服务，ctx 结束后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
