package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-creator/pkg/oracle"
	"github.com/shouni/go-manga-creator/pkg/prompts"
)

// StageTemperature は全工程で使うサンプリング温度です。実行ごとに出力が変わる前提なのだ。
const StageTemperature float32 = 1

// TextStage はテンプレートで組み立てたプロンプトを1回だけモデルに送るテキスト工程です。
// Story・Script・VisualStyle・CharacterDesign はすべてこの型で表現します。
type TextStage struct {
	name    string
	mode    string
	model   string
	oracle  oracle.Oracle
	prompts prompts.TextPrompt
	logger  *slog.Logger
}

// TextStageArgs は TextStage の依存関係です。
type TextStageArgs struct {
	Oracle  oracle.Oracle
	Prompts prompts.TextPrompt
	Model   string
	Logger  *slog.Logger
}

// NewStoryGenerator はプレミスからあらすじを作る工程を返します。
func NewStoryGenerator(args TextStageArgs) (*TextStage, error) {
	return newTextStage("story", prompts.ModeStory, args)
}

// NewScriptGenerator はあらすじから JSON 台本を作る工程を返します。
func NewScriptGenerator(args TextStageArgs) (*TextStage, error) {
	return newTextStage("script", prompts.ModeScript, args)
}

// NewVisualStyleGenerator は台本からビジュアルスタイルガイドを作る工程を返します。
func NewVisualStyleGenerator(args TextStageArgs) (*TextStage, error) {
	return newTextStage("visual_style", prompts.ModeVisualStyle, args)
}

// NewCharacterDesignGenerator は台本からキャラクターデザインを作る工程を返します。
func NewCharacterDesignGenerator(args TextStageArgs) (*TextStage, error) {
	return newTextStage("character_design", prompts.ModeCharacterDesign, args)
}

func newTextStage(name, mode string, args TextStageArgs) (*TextStage, error) {
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
	return &TextStage{
		name:    name,
		mode:    mode,
		model:   args.Model,
		oracle:  args.Oracle,
		prompts: args.Prompts,
		logger:  logger,
	}, nil
}

// Name は工程名を返します。
func (s *TextStage) Name() string {
	return s.name
}

// Generate は入力をテンプレートに埋め込み、モデルの応答をそのまま返します。
// エラーの握りつぶしはしません。劣化させるかどうかは呼び出し側が決めるのだ。
func (s *TextStage) Generate(ctx context.Context, input string) (string, error) {
	prompt, err := s.prompts.Build(s.mode, prompts.TemplateData{InputText: input})
	if err != nil {
		return "", fmt.Errorf("プロンプト生成に失敗しました: %w", err)
	}

	s.logger.InfoContext(ctx, "テキスト工程を実行します", "stage", s.name, "model", s.model)
	temp := StageTemperature
	text, err := s.oracle.Generate(ctx, oracle.UserPrompt(s.model, prompt, &temp))
	if err != nil {
		return "", fmt.Errorf("%s の生成に失敗しました: %w", s.name, err)
	}
	return text, nil
}
