// Package server は漫画生成パイプラインを1ページのフォームとして公開する Web UI です。
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-manga-creator/pkg/asset"
	"github.com/shouni/go-manga-creator/pkg/workflow"
)

const (
	defaultRunTimeout      = 10 * time.Minute
	defaultCacheExpiration = time.Hour
	cacheCleanupInterval   = 15 * time.Minute
	shutdownTimeout        = 5 * time.Second
)

// Runner は1回分のパイプライン実行を担う契約です。workflow.Manager が実装します。
type Runner interface {
	Run(ctx context.Context, premise string, opts workflow.Options) (*workflow.Result, error)
}

// Args は Application の依存関係です。
type Args struct {
	Runner       Runner
	Store        *asset.Store
	Logger       *slog.Logger
	Options      workflow.Options
	RunTimeout   time.Duration
	CacheTTL     time.Duration
	CookieSecure bool
}

// Application は HTTP ハンドラが共有する状態を保持します。
type Application struct {
	logger       *slog.Logger
	runner       Runner
	store        *asset.Store
	opts         workflow.Options
	runTimeout   time.Duration
	cookieSecure bool

	runs      *cache.Cache
	flight    singleflight.Group
	templates *template.Template
	markdown  goldmark.Markdown
}

// New は Application を初期化します。
func New(args Args) (*Application, error) {
	if args.Runner == nil {
		return nil, fmt.Errorf("Runner は必須です")
	}
	if args.Store == nil {
		return nil, fmt.Errorf("Store は必須です")
	}
	logger := args.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runTimeout := args.RunTimeout
	if runTimeout <= 0 {
		runTimeout = defaultRunTimeout
	}
	ttl := args.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheExpiration
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Application{
		logger:       logger,
		runner:       args.Runner,
		store:        args.Store,
		opts:         args.Options,
		runTimeout:   runTimeout,
		cookieSecure: args.CookieSecure,
		runs:         cache.New(ttl, cacheCleanupInterval),
		templates:    tmpl,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}, nil
}

// Run は addr で待ち受け、ctx が終わるとグレースフルシャットダウンします。
func (app *Application) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("TCP の待ち受けに失敗しました: %w", err)
	}
	return app.Serve(ctx, listener)
}

// Serve は既存の listener でサーバーを起動します。
func (app *Application) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           app.Routes(),
		IdleTimeout:       time.Minute,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: time.Second,
		// 画像生成が終わるまでレスポンスを返せないので実行時間より長く取る
		WriteTimeout: app.runTimeout + time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String("addr", listener.Addr().String()))
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("サーバーの実行に失敗しました: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.LogAttrs(ctx, slog.LevelInfo, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("サーバーの停止に失敗しました: %w", err)
		}
		return nil
	})
	return g.Wait()
}
