package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-creator/internal/config"
	"github.com/shouni/go-manga-creator/pkg/asset"
	"github.com/shouni/go-manga-creator/pkg/oracle"
	"github.com/shouni/go-manga-creator/pkg/workflow"
)

// ApplyOptions は CLI フラグで指定された値を環境変数由来の設定に上書きします。
func ApplyOptions(cfg *config.Config, opts config.GenerateOptions) {
	if opts.AIModel != "" {
		cfg.GeminiModel = opts.AIModel
	}
	if opts.ImageModel != "" {
		cfg.GeminiImageModel = opts.ImageModel
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.Addr != "" {
		cfg.ServerAddr = opts.Addr
	}
	cfg.Options = opts
}

// NewAppContext は Gemini クライアントと Manager を構築して AppContext を返します。
// o が nil でなければ Gemini クライアントの代わりにそれを使います。
func NewAppContext(ctx context.Context, cfg *config.Config, o oracle.Oracle, logger *slog.Logger) (*AppContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config は必須です")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if o == nil {
		client, err := InitializeAIClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		o = client
	}

	kc := cfg.KitConfig()
	manager, err := workflow.New(ctx, workflow.ManagerArgs{
		Config: kc,
		Oracle: o,
		Store:  asset.NewStore(kc.OutputDir),
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗しました: %w", err)
	}

	return &AppContext{
		Config:  cfg,
		Options: cfg.Options,
		Manager: manager,
		Logger:  logger,
	}, nil
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*oracle.Client, error) {
	client, err := oracle.NewClient(ctx, oracle.Config{
		APIKey:       cfg.GeminiAPIKey,
		RateInterval: cfg.RateInterval,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}
