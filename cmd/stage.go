package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/go-manga-creator/internal/pipeline"
	"github.com/shouni/go-manga-creator/pkg/workflow"
)

// stageCommand は、テキスト工程を1つだけ実行する RunE を組み立てるのだ。
// 入力は story なら --premise、それ以外は --input-file（'-'で標準入力）から読むのだよ。
func stageCommand(stage workflow.Stage) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var text string
		if stage == workflow.StageStory {
			text = opts.Premise
		}
		input, err := stageInput(text, opts.InputFile, cmd.InOrStdin())
		if err != nil {
			return err
		}

		app, err := newAppContext(ctx)
		if err != nil {
			return err
		}

		slog.Info("工程を単独で実行するのだ", "stage", stage, "text_model", app.Config.GeminiModel)
		if err := pipeline.ExecuteStage(ctx, app, stage, input, cmd.OutOrStdout()); err != nil {
			return err
		}
		slog.Info("工程が完了したのだ！", "stage", stage)
		return nil
	}
}

// stageInput は直接渡されたテキストを優先し、無ければ入力ファイルを読むのだ。
func stageInput(text, inputFile string, stdin io.Reader) (string, error) {
	if text = strings.TrimSpace(text); text != "" {
		return text, nil
	}
	if inputFile == "" {
		return "", fmt.Errorf("入力ファイル（--input-file）を指定してほしいのだ")
	}
	input, err := pipeline.ReadInput(inputFile, stdin)
	if err != nil {
		return "", fmt.Errorf("入力の読み込みに失敗したのだ: %w", err)
	}
	return input, nil
}

func addInputFlag(c *cobra.Command, usage string) {
	c.Flags().StringVarP(&opts.InputFile, "input-file", "f", "", usage)
}
