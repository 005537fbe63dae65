package oracle

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ErrMissingAPIKey は API キーが設定されていない場合に返されます。
var ErrMissingAPIKey = errors.New("Gemini API キーが設定されていません")

// Config は Client の初期化に必要な設定です。
type Config struct {
	APIKey string
	// RateInterval はリクエスト間の最小間隔です。0 なら制限しません。
	RateInterval time.Duration
	Logger       *slog.Logger
}

// Client は genai を使って Gemini API と通信する Oracle 実装です。
type Client struct {
	models  *genai.Models
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient は API キーを明示的に受け取って Client を初期化します。
// キーが空の場合は環境変数を見に行かず ErrMissingAPIKey を返します。
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		models:  gc.Models,
		limiter: newLimiter(cfg.RateInterval),
		logger:  logger,
	}, nil
}

// newLimiter は間隔からレートリミッターを作ります。0 以下なら無制限です。
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Generate は単発のリクエストを送り、応答のテキストを返します。
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("レートリミット待機中に中断されました: %w", err)
	}

	c.logger.DebugContext(ctx, "Gemini API を呼び出します", "model", req.Model, "turns", len(req.Turns))
	resp, err := c.models.GenerateContent(ctx, req.Model, toContents(req.Turns), toConfig(req))
	if err != nil {
		return "", fmt.Errorf("コンテンツ生成に失敗しました (model=%s): %w", req.Model, err)
	}
	return resp.Text(), nil
}

// Stream はストリーミングリクエストを送り、応答チャンクを順に返すシーケンスを返します。
// シーケンスは一度しか走査できず、呼び出し側が途中で止めると受信も止まります。
func (c *Client) Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		if err := c.limiter.Wait(ctx); err != nil {
			yield(Chunk{}, fmt.Errorf("レートリミット待機中に中断されました: %w", err))
			return
		}

		c.logger.DebugContext(ctx, "Gemini API のストリーミングを開始します", "model", req.Model, "modalities", req.ResponseModalities)
		for resp, err := range c.models.GenerateContentStream(ctx, req.Model, toContents(req.Turns), toConfig(req)) {
			if err != nil {
				yield(Chunk{}, fmt.Errorf("ストリーミング生成に失敗しました (model=%s): %w", req.Model, err))
				return
			}
			if !yield(toChunk(resp), nil) {
				return
			}
		}
	}
}

func toContents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := t.Role
		if role == "" {
			role = RoleUser
		}
		contents = append(contents, genai.NewContentFromText(t.Text, genai.Role(role)))
	}
	return contents
}

func toConfig(req Request) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:        req.Temperature,
		ResponseModalities: req.ResponseModalities,
	}
}

// toChunk は最初の候補のパーツを Chunk に変換します。
// 候補・コンテンツ・パーツのいずれかが無い応答は空の Chunk になります。
func toChunk(resp *genai.GenerateContentResponse) Chunk {
	if resp == nil || len(resp.Candidates) == 0 {
		return Chunk{}
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 {
		return Chunk{}
	}

	parts := make([]Part, 0, len(cand.Content.Parts))
	for _, p := range cand.Content.Parts {
		if p == nil {
			continue
		}
		part := Part{Text: p.Text}
		if p.InlineData != nil {
			part.MIMEType = p.InlineData.MIMEType
			part.Data = p.InlineData.Data
		}
		parts = append(parts, part)
	}
	return Chunk{Parts: parts}
}
