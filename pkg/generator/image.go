package generator

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/shouni/go-manga-creator/pkg/asset"
	"github.com/shouni/go-manga-creator/pkg/oracle"
	"github.com/shouni/go-manga-creator/pkg/prompts"
)

// ImageArtifact はストリームから受け取った画像1枚分です。
type ImageArtifact struct {
	Index    int
	MIMEType string
	Data     []byte
	FileName string
}

// ImageEvent は画像工程が返す1イベントです。Artifact か Text のどちらか一方が入ります。
type ImageEvent struct {
	Artifact *ImageArtifact
	Text     string
}

// ImageGenerator は台本とスタイルガイドから画像をストリーミング生成する工程です。
type ImageGenerator struct {
	model            string
	oracle           oracle.Oracle
	prompts          prompts.ImagePrompt
	imagesPerChapter int
	logger           *slog.Logger
}

// ImageGeneratorArgs は ImageGenerator の依存関係です。
type ImageGeneratorArgs struct {
	Oracle           oracle.Oracle
	Prompts          prompts.ImagePrompt
	Model            string
	ImagesPerChapter int
	Logger           *slog.Logger
}

// NewImageGenerator は ImageGenerator を初期化します。
func NewImageGenerator(args ImageGeneratorArgs) (*ImageGenerator, error) {
	if args.Oracle == nil {
		return nil, fmt.Errorf("Oracle は必須です")
	}
	if args.Prompts == nil {
		return nil, fmt.Errorf("Prompts は必須です")
	}
	if args.Model == "" {
		return nil, fmt.Errorf("Model は必須です")
	}
	logger := args.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageGenerator{
		model:            args.Model,
		oracle:           args.Oracle,
		prompts:          args.Prompts,
		imagesPerChapter: args.ImagesPerChapter,
		logger:           logger,
	}, nil
}

// Generate は画像イベントの遅延シーケンスを返します。
// パーツの無いチャンクは飛ばし、先頭パーツがデータを持てば連番付きの画像として、
// そうでなければテキストとして返します。連番は0から始まり実行全体で通しです。
// 枚数制限やタイムアウトは呼び出し側がシーケンスを止めるか ctx で行います。
func (g *ImageGenerator) Generate(ctx context.Context, script, visualStyle string) iter.Seq2[ImageEvent, error] {
	return func(yield func(ImageEvent, error) bool) {
		systemPrompt, userPrompt, err := g.prompts.Build(prompts.ImageTemplateData{
			Script:           script,
			VisualStyle:      visualStyle,
			ImagesPerChapter: g.imagesPerChapter,
		})
		if err != nil {
			yield(ImageEvent{}, fmt.Errorf("画像プロンプトの生成に失敗しました: %w", err))
			return
		}

		temp := StageTemperature
		req := oracle.Request{
			Model: g.model,
			Turns: []oracle.Turn{
				{Role: oracle.RoleModel, Text: systemPrompt},
				{Role: oracle.RoleUser, Text: userPrompt},
			},
			Temperature:        &temp,
			ResponseModalities: []string{oracle.ModalityImage},
		}

		g.logger.InfoContext(ctx, "画像工程を開始します", "model", g.model)
		index := 0
		for chunk, err := range g.oracle.Stream(ctx, req) {
			if err != nil {
				yield(ImageEvent{}, fmt.Errorf("画像の生成に失敗しました: %w", err))
				return
			}
			if len(chunk.Parts) == 0 {
				continue
			}

			var ev ImageEvent
			if first := chunk.Parts[0]; first.HasData() {
				ev.Artifact = &ImageArtifact{
					Index:    index,
					MIMEType: first.MIMEType,
					Data:     first.Data,
					FileName: asset.ArtifactFileName(index, first.MIMEType),
				}
				index++
			} else if text := chunk.Text(); text != "" {
				ev.Text = text
			} else {
				continue
			}

			if !yield(ev, nil) {
				return
			}
		}
	}
}
