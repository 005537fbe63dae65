package builder

import (
	"log/slog"

	"github.com/shouni/go-manga-creator/internal/config"
	"github.com/shouni/go-manga-creator/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各実行関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です。
	Manager *workflow.Manager      // Managerは、各工程を固定順で実行するパイプライン本体です。
	Logger  *slog.Logger
}

// RunOptions は CLI フラグと環境変数から1回分の実行オプションを組み立てます。
// フラグが指定されていればフラグを優先します。
func (a *AppContext) RunOptions() workflow.Options {
	maxImages := a.Config.MaxImages
	if a.Options.MaxImages > 0 {
		maxImages = a.Options.MaxImages
	}
	timeout := a.Config.ImageTimeout
	if a.Options.ImageTimeout > 0 {
		timeout = a.Options.ImageTimeout
	}
	return workflow.Options{
		StrictStages:        a.Options.StrictStages,
		StrictScript:        a.Options.StrictScript,
		WithCharacterDesign: a.Options.WithCharacterDesign,
		MaxImages:           maxImages,
		ImageTimeout:        timeout,
	}
}
