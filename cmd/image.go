package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/go-manga-creator/internal/config"
	"github.com/shouni/go-manga-creator/internal/pipeline"
)

// imageCmd は、既存の台本ファイルを読み込んで画像工程だけを実行するためのサブコマンドなのだ。
// テキスト生成をスキップするので、画像の再生成や調整に便利なのだ。
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "台本とスタイルガイドから画像だけを生成して保存するのだ。",
	Long: `script コマンドや generate コマンドで得た台本を読み込み、漫画画像を生成して保存するのだ。
保存先のフォルダ名は --premise から決まるので、元のアイデアを渡せば同じフォルダに上書きされるのだよ。`,
	Example: "  manga-creator image --script-file script.json --style-file style.md -p \"A lonely robot\"",
	RunE:    imageCommand,
}

func init() {
	imageCmd.Flags().StringVarP(&opts.ScriptFile, "script-file", "s", "", "台本ファイルのパスなのだ（'-'で標準入力）。")
	imageCmd.Flags().StringVar(&opts.StyleFile, "style-file", "", "スタイルガイドのパスなのだ（省略可）。")
	imageCmd.Flags().StringVarP(&opts.Premise, "premise", "p", "", "保存先フォルダ名の元になるアイデアなのだ（省略時は例題）。")
	_ = imageCmd.MarkFlagRequired("script-file")
	addRunFlags(imageCmd)
}

// imageCommand は、image サブコマンドの実行ロジック本体なのだ。
func imageCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.ScriptFile == "" {
		return fmt.Errorf("読み込む台本ファイル（--script-file）を指定してほしいのだ")
	}

	premise := opts.Premise
	if premise == "" {
		premise = config.DefaultPremise
	}

	app, err := newAppContext(ctx)
	if err != nil {
		return err
	}

	slog.Info("画像生成モードを起動するのだ！",
		"script_file", opts.ScriptFile,
		"style_file", opts.StyleFile,
		"image_model", app.Config.GeminiImageModel)

	res, err := pipeline.ExecuteImageOnly(ctx, app, premise, opts.ScriptFile, opts.StyleFile, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("画像生成中にエラーが発生したのだ: %w", err)
	}

	slog.Info("画像の生成が完了したのだ！",
		"folder", app.Manager.Store().FolderPath(res.FolderKey),
		"images", len(res.Artifacts))
	return nil
}
