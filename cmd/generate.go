package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-manga-creator/internal/config"
	"github.com/shouni/go-manga-creator/internal/pipeline"
)

// generateCmd は、アイデアから画像までの全工程を実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "アイデアから漫画の台本と画像を一気に生成するのだ。",
	Long: `アイデアからあらすじ・台本・ビジュアルスタイルを生成し、最後に漫画画像を保存するのだ。
台本とスタイルガイドは標準出力に、画像は <output-dir>/<フォルダ名>/STORIES_<n>.<ext> に出力されるのだよ。`,
	Example: `  manga-creator generate -p "A lonely robot learns to paint"
  manga-creator generate --input-file idea.txt --max-images 4`,
	RunE: generateCommand,
}

func init() {
	generateCmd.Flags().StringVarP(&opts.Premise, "premise", "p", "", "物語のアイデアなのだ（省略時は例題を使うのだ）。")
	generateCmd.Flags().StringVarP(&opts.InputFile, "input-file", "f", "", "アイデアを読み込むファイルなのだ（'-'で標準入力）。")
	addRunFlags(generateCmd)
}

// addRunFlags は、パイプライン実行の挙動を決めるフラグを登録するのだ。
func addRunFlags(c *cobra.Command) {
	c.Flags().IntVar(&opts.MaxImages, "max-images", 0, "保存する画像の上限なのだ（0 で無制限、既定: MAX_IMAGES）。")
	c.Flags().DurationVar(&opts.ImageTimeout, "image-timeout", 0, "画像ストリームの受信時間の上限なのだ（0 で無制限、既定: IMAGE_TIMEOUT）。")
	c.Flags().BoolVar(&opts.StrictStages, "strict", false, "あらすじ・スタイル工程の失敗でも中断するのだ。")
	c.Flags().BoolVar(&opts.StrictScript, "strict-script", false, "台本 JSON が解析できなければ中断するのだ。")
	c.Flags().BoolVar(&opts.WithCharacterDesign, "with-character-design", false, "キャラクターデザイン工程も実行するのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	premise, err := resolvePremise()
	if err != nil {
		return err
	}

	app, err := newAppContext(ctx)
	if err != nil {
		return err
	}

	slog.Info("漫画生成パイプラインを起動するのだ！",
		"text_model", app.Config.GeminiModel,
		"image_model", app.Config.GeminiImageModel,
		"output_dir", app.Config.OutputDir)

	res, err := pipeline.Execute(ctx, app, premise, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	slog.Info("すべての生成工程が完了したのだ！",
		"folder", app.Manager.Store().FolderPath(res.FolderKey),
		"images", len(res.Artifacts),
		"warnings", len(res.Warnings))
	return nil
}

// resolvePremise は --premise、--input-file、例題の順でアイデアを決めるのだ。
func resolvePremise() (string, error) {
	if opts.Premise != "" {
		return opts.Premise, nil
	}
	if opts.InputFile != "" {
		premise, err := pipeline.ReadInput(opts.InputFile, os.Stdin)
		if err != nil {
			return "", fmt.Errorf("アイデアの読み込みに失敗したのだ: %w", err)
		}
		return premise, nil
	}
	slog.Info("アイデアが指定されていないので例題を使うのだ", "premise", config.DefaultPremise)
	return config.DefaultPremise, nil
}
