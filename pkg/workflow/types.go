package workflow

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-manga-creator/pkg/asset"
	"github.com/shouni/go-manga-creator/pkg/config"
	"github.com/shouni/go-manga-creator/pkg/domain"
	"github.com/shouni/go-manga-creator/pkg/oracle"
	"github.com/shouni/go-manga-creator/pkg/parser"
	"github.com/shouni/go-manga-creator/pkg/prompts"
)

// Stage はパイプラインの工程名です。
type Stage string

const (
	StageStory           Stage = "story"
	StageScript          Stage = "script"
	StageParse           Stage = "parse"
	StageVisualStyle     Stage = "visual_style"
	StageCharacterDesign Stage = "character_design"
	StageImage           Stage = "image"
	StagePersist         Stage = "persist"
)

// StageError はどの工程で失敗したかを保持するエラーです。
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s 工程に失敗しました: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ManagerArgs は Manager の依存関係です。
// Oracle が nil の場合は Config.GeminiAPIKey から Gemini クライアントを作ります。
type ManagerArgs struct {
	Config      config.Config
	Oracle      oracle.Oracle
	Store       *asset.Store
	TextPrompt  prompts.TextPrompt
	ImagePrompt prompts.ImagePrompt
	Parser      parser.Parser
	Logger      *slog.Logger
}

// Options は1回の実行ごとの挙動を呼び出し側が決めるための設定です。
type Options struct {
	// StrictStages が true なら Story / VisualStyle / CharacterDesign の失敗で中断します。
	// false なら空文字で続行し、Result.Warnings に記録します。
	StrictStages bool
	// StrictScript が true なら台本 JSON の解析・検証に失敗した時点で中断します。
	StrictScript bool
	// WithCharacterDesign が true ならキャラクターデザイン工程も実行します。
	WithCharacterDesign bool
	// MaxImages は保存する画像の上限です。0 なら無制限です。
	MaxImages int
	// ImageTimeout は画像ストリームの受信時間の上限です。0 なら無制限です。
	ImageTimeout time.Duration

	// OnStage は各テキスト工程が終わるたびに呼ばれます。
	OnStage func(stage Stage, output string)
	// OnCommentary は画像工程でテキストのチャンクを受け取るたびに呼ばれます。
	OnCommentary func(text string)
}

// Result は1回の実行結果です。失敗時も途中までの内容が入ります。
type Result struct {
	Premise         string
	FolderKey       string
	Story           string
	Script          string
	ParsedScript    *domain.MangaScript
	VisualStyle     string
	CharacterDesign string
	Artifacts       []string
	Commentary      []string
	Warnings        []*StageError
}

// Degraded は指定工程の警告が記録されているかを返します。
func (r *Result) Degraded(stage Stage) bool {
	for _, w := range r.Warnings {
		if w.Stage == stage {
			return true
		}
	}
	return false
}
