package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-creator/pkg/asset"
	"github.com/shouni/go-manga-creator/pkg/config"
	"github.com/shouni/go-manga-creator/pkg/generator"
	"github.com/shouni/go-manga-creator/pkg/oracle"
	"github.com/shouni/go-manga-creator/pkg/parser"
	"github.com/shouni/go-manga-creator/pkg/prompts"
)

// Manager は、各工程を固定順で組み合わせて1回分の漫画生成を実行します。
type Manager struct {
	cfg    config.Config
	store  *asset.Store
	parser parser.Parser
	logger *slog.Logger

	story           generator.TextGenerator
	script          generator.TextGenerator
	visualStyle     generator.TextGenerator
	characterDesign generator.TextGenerator
	images          generator.SceneImageGenerator
}

// New は、設定と依存関係を基に新しい Manager を初期化します。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	cfg := args.Config.WithDefaults()

	logger := args.Logger
	if logger == nil {
		logger = slog.Default()
	}

	aiClient, err := initializeAIClient(ctx, args.Oracle, cfg, logger)
	if err != nil {
		return nil, err
	}

	tPrompt, err := initializeTextPrompt(args.TextPrompt)
	if err != nil {
		return nil, err
	}

	iPrompt, err := initializeImagePrompt(args.ImagePrompt)
	if err != nil {
		return nil, err
	}

	store := args.Store
	if store == nil {
		store = asset.NewStore(cfg.OutputDir)
	}

	p := args.Parser
	if p == nil {
		p = parser.NewScriptParser()
	}

	m := &Manager{
		cfg:    cfg,
		store:  store,
		parser: p,
		logger: logger,
	}

	textArgs := generator.TextStageArgs{Oracle: aiClient, Prompts: tPrompt, Model: cfg.GeminiModel, Logger: logger}
	if m.story, err = generator.NewStoryGenerator(textArgs); err != nil {
		return nil, err
	}
	if m.script, err = generator.NewScriptGenerator(textArgs); err != nil {
		return nil, err
	}
	if m.visualStyle, err = generator.NewVisualStyleGenerator(textArgs); err != nil {
		return nil, err
	}
	if m.characterDesign, err = generator.NewCharacterDesignGenerator(textArgs); err != nil {
		return nil, err
	}
	m.images, err = generator.NewImageGenerator(generator.ImageGeneratorArgs{
		Oracle:           aiClient,
		Prompts:          iPrompt,
		Model:            cfg.ImageModel,
		ImagesPerChapter: cfg.ImagesPerChapter,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成エンジンの初期化に失敗しました: %w", err)
	}

	return m, nil
}

// initializeAIClient は Oracle が渡されていればそれを使い、なければ gemini クライアントを初期化します。
func initializeAIClient(ctx context.Context, o oracle.Oracle, cfg config.Config, logger *slog.Logger) (oracle.Oracle, error) {
	if o != nil {
		return o, nil
	}
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

// initializeTextPrompt は既存のビルダーが渡されればそれを返し、nil の場合は新規作成します。
func initializeTextPrompt(p prompts.TextPrompt) (prompts.TextPrompt, error) {
	if p != nil {
		return p, nil
	}
	pb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("TextPromptBuilder の新規作成に失敗しました: %w", err)
	}
	return pb, nil
}

// initializeImagePrompt は既存のビルダーが渡されればそれを返し、nil の場合は新規作成します。
func initializeImagePrompt(p prompts.ImagePrompt) (prompts.ImagePrompt, error) {
	if p != nil {
		return p, nil
	}
	ib, err := prompts.NewImagePromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("ImagePromptBuilder の新規作成に失敗しました: %w", err)
	}
	return ib, nil
}

// Store は成果物の保存先を返します。
func (m *Manager) Store() *asset.Store {
	return m.store
}

// Run は Story → Script → VisualStyle → (CharacterDesign) → Images の順に実行します。
// Script と Images の失敗は *StageError を返して中断し、途中までの Result も返します。
// Story と VisualStyle の失敗は opts.StrictStages が false なら空文字で続行します。
func (m *Manager) Run(ctx context.Context, premise string, opts Options) (*Result, error) {
	res := &Result{Premise: premise, FolderKey: asset.FolderKey(premise)}
	m.logger.InfoContext(ctx, "漫画生成パイプラインを開始します", "folder_key", res.FolderKey)

	story, err := m.story.Generate(ctx, premise)
	if err != nil {
		if abort := m.degrade(ctx, res, StageStory, "Error generating story", err, opts); abort != nil {
			return res, abort
		}
	}
	res.Story = story
	notify(opts, StageStory, story)

	script, err := m.script.Generate(ctx, story)
	if err != nil {
		return res, &StageError{Stage: StageScript, Err: err}
	}
	res.Script = script

	parsed, err := m.parser.Parse(script)
	if err != nil {
		if opts.StrictScript {
			return res, &StageError{Stage: StageParse, Err: err}
		}
		m.logger.WarnContext(ctx, "台本を構造化できませんでした。テキストのまま続行します", "error", err)
		res.Warnings = append(res.Warnings, &StageError{Stage: StageParse, Err: err})
	} else {
		res.ParsedScript = parsed
		m.logger.InfoContext(ctx, "台本を解析しました",
			"chapters", len(parsed.Chapters),
			"scenes", parsed.SceneCount(),
			"dialogue_lines", parsed.DialogueCount())
	}
	notify(opts, StageScript, script)

	style, err := m.visualStyle.Generate(ctx, script)
	if err != nil {
		if abort := m.degrade(ctx, res, StageVisualStyle, "Error generating visual style", err, opts); abort != nil {
			return res, abort
		}
	}
	res.VisualStyle = style
	notify(opts, StageVisualStyle, style)

	if opts.WithCharacterDesign {
		design, err := m.characterDesign.Generate(ctx, script)
		if err != nil {
			if abort := m.degrade(ctx, res, StageCharacterDesign, "Error generating character design", err, opts); abort != nil {
				return res, abort
			}
		}
		res.CharacterDesign = design
		notify(opts, StageCharacterDesign, design)
	}

	if err := m.generateImages(ctx, res, opts); err != nil {
		return res, err
	}

	m.logger.InfoContext(ctx, "漫画生成パイプラインが完了しました",
		"artifacts", len(res.Artifacts),
		"warnings", len(res.Warnings))
	return res, nil
}

// degrade は劣化可能な工程の失敗をログと警告に記録します。
// 中断すべき場合（厳格モードまたは ctx の終了）は *StageError を返します。
func (m *Manager) degrade(ctx context.Context, res *Result, stage Stage, msg string, err error, opts Options) error {
	stageErr := &StageError{Stage: stage, Err: err}
	if opts.StrictStages || ctx.Err() != nil {
		return stageErr
	}
	m.logger.ErrorContext(ctx, msg, "error", err)
	res.Warnings = append(res.Warnings, stageErr)
	return nil
}

func notify(opts Options, stage Stage, output string) {
	if opts.OnStage != nil {
		opts.OnStage(stage, output)
	}
}

// GenerateImages は画像工程だけを実行し、画像を premise のフォルダに保存します。
func (m *Manager) GenerateImages(ctx context.Context, premise, script, visualStyle string, opts Options) (*Result, error) {
	res := &Result{
		Premise:     premise,
		FolderKey:   asset.FolderKey(premise),
		Script:      script,
		VisualStyle: visualStyle,
	}
	if err := m.generateImages(ctx, res, opts); err != nil {
		return res, err
	}
	return res, nil
}

// generateImages は画像ストリームを消費し、画像は保存、テキストはコメントとして記録します。
// 保存の失敗は警告として記録して続行します。
func (m *Manager) generateImages(ctx context.Context, res *Result, opts Options) error {
	imgCtx := ctx
	if opts.ImageTimeout > 0 {
		var cancel context.CancelFunc
		imgCtx, cancel = context.WithTimeout(ctx, opts.ImageTimeout)
		defer cancel()
	}

	received := 0
	for ev, err := range m.images.Generate(imgCtx, res.Script, res.VisualStyle) {
		if err != nil {
			if ctx.Err() == nil && errors.Is(imgCtx.Err(), context.DeadlineExceeded) {
				m.logger.WarnContext(ctx, "画像工程の制限時間に達したため受信を終了します", "timeout", opts.ImageTimeout)
				res.Warnings = append(res.Warnings, &StageError{Stage: StageImage, Err: err})
				return nil
			}
			return &StageError{Stage: StageImage, Err: err}
		}

		if ev.Artifact == nil {
			m.logger.InfoContext(ctx, "画像工程からのテキスト", "text", ev.Text)
			res.Commentary = append(res.Commentary, ev.Text)
			if opts.OnCommentary != nil {
				opts.OnCommentary(ev.Text)
			}
			continue
		}

		received++
		path, err := m.store.SaveArtifact(ev.Artifact.FileName, ev.Artifact.Data, res.FolderKey)
		if err != nil {
			m.logger.ErrorContext(ctx, "Error saving file", "file", ev.Artifact.FileName, "error", err)
			res.Warnings = append(res.Warnings, &StageError{Stage: StagePersist, Err: err})
		} else {
			m.logger.InfoContext(ctx, "File saved to", "path", path)
			res.Artifacts = append(res.Artifacts, path)
		}

		if opts.MaxImages > 0 && received >= opts.MaxImages {
			m.logger.InfoContext(ctx, "画像の上限に達したため受信を終了します", "max_images", opts.MaxImages)
			break
		}
	}
	return nil
}

// GenerateStory は Story 工程だけを実行します。失敗はそのまま返します。
func (m *Manager) GenerateStory(ctx context.Context, premise string) (string, error) {
	return m.story.Generate(ctx, premise)
}

// GenerateScript は Script 工程だけを実行します。
func (m *Manager) GenerateScript(ctx context.Context, story string) (string, error) {
	return m.script.Generate(ctx, story)
}

// GenerateVisualStyle は VisualStyle 工程だけを実行します。
func (m *Manager) GenerateVisualStyle(ctx context.Context, script string) (string, error) {
	return m.visualStyle.Generate(ctx, script)
}

// GenerateCharacterDesign は CharacterDesign 工程だけを実行します。
func (m *Manager) GenerateCharacterDesign(ctx context.Context, script string) (string, error) {
	return m.characterDesign.Generate(ctx, script)
}
