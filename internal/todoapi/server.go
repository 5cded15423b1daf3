package todoapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/nao1215/todoapi/internal/auth"
	"github.com/nao1215/todoapi/internal/item"
	"github.com/nao1215/todoapi/pkg/guard"
	"github.com/nao1215/todoapi/pkg/middleware"
)

// Server はTODO APIのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// store はアイテムの永続化先。
	store item.Store
	// issuer はログイン時にトークンを発行する。
	issuer *auth.Issuer
	// tokens は認可ゲートで提示されたトークンを検証する。
	tokens middleware.TokenValidator
	// validate はリクエストボディの構造検証に使うバリデータ。
	validate *validator.Validate
	// allowedOrigins はCORSで許可するオリジン。
	allowedOrigins []string
	// shutdownTimeout はグレースフルシャットダウンの待ち時間。
	shutdownTimeout time.Duration
}

// Option はServerの任意設定。
type Option func(*Server)

// WithAllowedOrigins はCORSで許可するオリジンを設定する。
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithShutdownTimeout はグレースフルシャットダウンの待ち時間を設定する。
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// NewServer は新しいTODO APIサーバーを生成する。
func NewServer(port string, store item.Store, issuer *auth.Issuer, tokens middleware.TokenValidator, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("ストアが指定されていません")
	}
	if issuer == nil || tokens == nil {
		return nil, errors.New("トークンの発行者と検証者が必要です")
	}

	s := &Server{
		router:          gin.New(),
		port:            port,
		store:           store,
		issuer:          issuer,
		tokens:          tokens,
		validate:        guard.NewValidator(),
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.Logger())
	if len(s.allowedOrigins) > 0 {
		s.router.Use(middleware.CORS(s.allowedOrigins))
	}
	s.setupRoutes()

	return s, nil
}

// Handler はサーバーのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctx がキャンセルされるとグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", s.port).Msg("server.started")
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

	log.Info().Msg("server.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("シャットダウンに失敗: %w", err)
	}
	return <-errCh
}

// route はルートテーブルの1行。
type route struct {
	method       string
	path         string
	requiresAuth bool
	guards       []guard.Guard
	handler      gin.HandlerFunc
}

// routes はルートテーブルを返す。
func (s *Server) routes() []route {
	return []route{
		{method: http.MethodGet, path: "/", handler: s.handleHello()},
		{method: http.MethodGet, path: "/health", handler: s.handleHealth()},
		{method: http.MethodPost, path: "/accounts/login", handler: s.handleLogin()},

		{method: http.MethodGet, path: "/items", requiresAuth: true, handler: s.handleListItems()},
		{
			method:       http.MethodPost,
			path:         "/items",
			requiresAuth: true,
			guards:       []guard.Guard{guard.ValidateBody[item.Item](s.validate)},
			handler:      s.handleCreateItem(),
		},
		{
			method:       http.MethodGet,
			path:         "/items/:id",
			requiresAuth: true,
			guards:       []guard.Guard{guard.IntParam("id")},
			handler:      s.handleGetItem(),
		},
		{
			method:       http.MethodPut,
			path:         "/items/:id",
			requiresAuth: true,
			guards:       []guard.Guard{guard.IntParam("id"), guard.ValidateBody[updateItemRequest](s.validate)},
			handler:      s.handleUpdateItem(),
		},
		{
			method:       http.MethodDelete,
			path:         "/items/:id",
			requiresAuth: true,
			guards:       []guard.Guard{guard.IntParam("id")},
			handler:      s.handleDeleteItem(),
		},
	}
}

// setupRoutes はルートテーブルをルーターに登録する。
// 認可ゲートはガードより先に評価される。
func (s *Server) setupRoutes() {
	for _, r := range s.routes() {
		s.router.Handle(r.method, r.path,
			middleware.Authorize(s.tokens, r.requiresAuth),
			guard.Chain(r.handler, r.guards...),
		)
	}
}

// pinger は疎通確認ができるストア。
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHello() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "Hello from Minimal API")
	}
}

// handleHealth はヘルスチェックのハンドラを返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, ok := s.store.(pinger); ok {
			if err := p.Ping(c.Request.Context()); err != nil {
				log.Ctx(c.Request.Context()).Error().Err(err).Msg("health.store_unavailable")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": "todoapi"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "todoapi"})
	}
}

// handleLogin は資格情報を検証してトークンを発行するハンドラを返す。
// 成功時はトークンをJSON文字列として返し、失敗時はボディなしの401を返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds auth.Credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストボディが不正です"})
			return
		}

		token, err := s.issuer.Issue(c.Request.Context(), creds)
		if errors.Is(err, auth.ErrAuthenticationFailure) {
			log.Ctx(c.Request.Context()).Info().Msg("auth.login_failed")
			c.Status(http.StatusUnauthorized)
			return
		}
		if err != nil {
			log.Ctx(c.Request.Context()).Error().Err(err).Msg("auth.issue_failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークン生成に失敗しました"})
			return
		}

		c.JSON(http.StatusOK, token)
	}
}

// handleListItems はアイテム一覧を返すハンドラを返す。
func (s *Server) handleListItems() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := s.store.List(c.Request.Context())
		if err != nil {
			s.storeError(c, err, "アイテム一覧の取得に失敗しました")
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// handleCreateItem はアイテムを作成するハンドラを返す。
func (s *Server) handleCreateItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		it, ok := guard.Body[item.Item](c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストボディが不正です"})
			return
		}

		if err := s.store.Insert(c.Request.Context(), *it); err != nil {
			if errors.Is(err, item.ErrDuplicate) {
				c.JSON(http.StatusBadRequest, gin.H{"error": item.ErrDuplicate.Error()})
				return
			}
			s.storeError(c, err, "アイテムの作成に失敗しました")
			return
		}

		log.Ctx(c.Request.Context()).Info().
			Int("item_id", it.ID).
			Str("user_id", middleware.GetUserID(c)).
			Msg("item.created")
		c.Header("Location", fmt.Sprintf("/items/%d", it.ID))
		c.JSON(http.StatusCreated, it)
	}
}

// handleGetItem はIDを指定してアイテムを返すハンドラを返す。
func (s *Server) handleGetItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		it, err := s.store.Get(c.Request.Context(), guard.ParamInt(c, "id"))
		if errors.Is(err, item.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": item.ErrNotFound.Error()})
			return
		}
		if err != nil {
			s.storeError(c, err, "アイテムの取得に失敗しました")
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

// updateItemRequest はアイテム更新のリクエストボディ。
// IDはパスパラメータで指定する。
type updateItemRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=200"`
	IsCompleted bool   `json:"isCompleted"`
}

// handleUpdateItem はアイテムを更新するハンドラを返す。
// 存在しないアイテムの更新は400として扱う。
func (s *Server) handleUpdateItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := guard.Body[updateItemRequest](c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストボディが不正です"})
			return
		}

		it := item.Item{
			ID:          guard.ParamInt(c, "id"),
			Title:       req.Title,
			IsCompleted: req.IsCompleted,
		}
		if err := s.store.Update(c.Request.Context(), it); err != nil {
			if errors.Is(err, item.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": item.ErrNotFound.Error()})
				return
			}
			s.storeError(c, err, "アイテムの更新に失敗しました")
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

// handleDeleteItem はアイテムを削除するハンドラを返す。
// 存在しないアイテムの削除は400として扱う。
func (s *Server) handleDeleteItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := guard.ParamInt(c, "id")
		if err := s.store.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, item.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": item.ErrNotFound.Error()})
				return
			}
			s.storeError(c, err, "アイテムの削除に失敗しました")
			return
		}

		log.Ctx(c.Request.Context()).Info().
			Int("item_id", id).
			Str("user_id", middleware.GetUserID(c)).
			Msg("item.deleted")
		c.Status(http.StatusNoContent)
	}
}

// storeError はストアのエラーをログに出力し、詳細を含めずに500を返す。
func (s *Server) storeError(c *gin.Context, err error, msg string) {
	log.Ctx(c.Request.Context()).Error().Err(err).Msg("store.failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
