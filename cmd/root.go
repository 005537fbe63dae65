package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shouni/go-manga-creator/internal/builder"
	"github.com/shouni/go-manga-creator/internal/config"
)

// opts はすべてのサブコマンドで共有する CLI フラグの値なのだ。
var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:   "manga-creator",
	Short: "短いアイデアから漫画のあらすじ・台本・画像を生成するのだ。",
	Long: `Gemini を使って、アイデア → あらすじ → 台本(JSON) → ビジュアルスタイル → 漫画画像
の順に生成するツールなのだ。各工程を個別に実行することもできるのだよ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	// --- AIモデル・挙動設定 ---
	flags.StringVar(&opts.AIModel, "model", "", "テキスト生成に使う Gemini モデル名なのだ（既定: GEMINI_MODEL または "+config.DefaultModel+"）。")
	flags.StringVar(&opts.ImageModel, "image-model", "", "画像生成に使う Gemini モデル名なのだ（既定: IMAGE_GEMINI_MODEL または "+config.DefaultImageModel+"）。")

	// --- 出力設定 ---
	flags.StringVarP(&opts.OutputDir, "output-dir", "o", "", "画像を保存する基準ディレクトリなのだ（既定: OUTPUT_DIR または カレントディレクトリ）。")

	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
}

// preRunAppE は、コマンド実行前に .env の読み込みとロガー設定、必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(".env ファイルの読み込みに失敗したのだ: %w", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY（または GOOGLE_API_KEY）が設定されていません。Gemini APIの利用には必須なのだ")
	}
	return nil
}

// newAppContext は環境変数とフラグから設定を組み立て、AppContext を初期化するのだ。
func newAppContext(ctx context.Context) (*builder.AppContext, error) {
	cfg := config.LoadConfig()
	builder.ApplyOptions(cfg, opts)

	app, err := builder.NewAppContext(ctx, cfg, nil, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
	}
	return app, nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(
		generateCmd,
		storyCmd,
		scriptCmd,
		styleCmd,
		designCmd,
		imageCmd,
		serveCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
