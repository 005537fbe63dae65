package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shouni/go-manga-creator/internal/builder"
	"github.com/shouni/go-manga-creator/pkg/workflow"
)

// stdinPath は入力ファイルの代わりに標準入力を読むことを表すのだ。
const stdinPath = "-"

// ErrStdinReused は台本とスタイルの両方を標準入力から読もうとしたときに返すのだ。
var ErrStdinReused = errors.New("台本とスタイルの両方に標準入力（'-'）は指定できないのだ")

// Execute は、プレミスから画像までの全工程を実行するのだ。
// 画像工程の前に台本とスタイルガイドを out に書き出すのだよ。
func Execute(ctx context.Context, app *builder.AppContext, premise string, out io.Writer) (*workflow.Result, error) {
	opts := app.RunOptions()
	opts.OnStage = func(stage workflow.Stage, output string) {
		switch stage {
		case workflow.StageScript, workflow.StageVisualStyle, workflow.StageCharacterDesign:
			fmt.Fprintln(out, output)
		}
	}
	opts.OnCommentary = func(text string) {
		fmt.Fprintln(out, text)
	}

	res, err := app.Manager.Run(ctx, premise, opts)
	if err != nil {
		return res, fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}
	for _, w := range res.Warnings {
		app.Logger.WarnContext(ctx, "一部の工程が劣化したまま完了したのだ", "stage", w.Stage, "error", w.Err)
	}
	return res, nil
}

// ExecuteStage は、テキスト工程を1つだけ実行して結果を out に書き出すのだ。
func ExecuteStage(ctx context.Context, app *builder.AppContext, stage workflow.Stage, input string, out io.Writer) error {
	var (
		text string
		err  error
	)
	switch stage {
	case workflow.StageStory:
		text, err = app.Manager.GenerateStory(ctx, input)
	case workflow.StageScript:
		text, err = app.Manager.GenerateScript(ctx, input)
	case workflow.StageVisualStyle:
		text, err = app.Manager.GenerateVisualStyle(ctx, input)
	case workflow.StageCharacterDesign:
		text, err = app.Manager.GenerateCharacterDesign(ctx, input)
	default:
		return fmt.Errorf("未対応の工程なのだ: %s", stage)
	}
	if err != nil {
		return &workflow.StageError{Stage: stage, Err: err}
	}

	_, err = fmt.Fprintln(out, text)
	return err
}

// ExecuteImageOnly は、保存済みの台本とスタイルガイドを読み込んで画像工程だけを実行するのだ。
// 標準入力は一度しか読めないので、台本とスタイルの両方に "-" は指定できないのだ。
func ExecuteImageOnly(ctx context.Context, app *builder.AppContext, premise, scriptFile, styleFile string, out io.Writer) (*workflow.Result, error) {
	if scriptFile == stdinPath && styleFile == stdinPath {
		return nil, ErrStdinReused
	}
	script, err := ReadInput(scriptFile, os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("台本ファイル '%s' の読み込みに失敗しました: %w", scriptFile, err)
	}
	var style string
	if styleFile != "" {
		if style, err = ReadInput(styleFile, os.Stdin); err != nil {
			return nil, fmt.Errorf("スタイルファイル '%s' の読み込みに失敗しました: %w", styleFile, err)
		}
	}

	opts := app.RunOptions()
	opts.OnCommentary = func(text string) {
		fmt.Fprintln(out, text)
	}
	return app.Manager.GenerateImages(ctx, premise, script, style, opts)
}

// ReadInput はファイルパスから内容を読み込むのだ。"-" なら stdin を読むのだよ。
func ReadInput(path string, stdin io.Reader) (string, error) {
	if path == "" {
		return "", fmt.Errorf("入力ファイルが指定されていないのだ")
	}
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
