package config

import (
	"log/slog"
	"strconv"
	"time"

	kitconfig "github.com/shouni/go-manga-creator/pkg/config"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel      = kitconfig.DefaultGeminiModel
	DefaultImageModel = kitconfig.DefaultImageModel
	DefaultOutputDir  = kitconfig.DefaultOutputDir
	DefaultServerAddr = "localhost:8080"
	DefaultRunTimeout = 10 * time.Minute

	// DefaultPremise は generate コマンドで --premise を省略したときの例題なのだ。
	DefaultPremise = "A village chief starting his journey to find a legendary sword to protect his people from an impending invasion, facing numerous trials and forging unexpected alliances along the way."
)

// Config はアプリケーション全体の環境設定（APIキーやサーバー設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string
	OutputDir        string
	RateInterval     time.Duration
	MaxImages        int
	ImageTimeout     time.Duration

	ServerAddr   string
	RunTimeout   time.Duration
	CookieSecure bool

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// API キーは GEMINI_API_KEY を優先し、無ければ GOOGLE_API_KEY を使うのだ。
func LoadConfig() *Config {
	apiKey := envutil.GetEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		apiKey = envutil.GetEnv("GOOGLE_API_KEY", "")
	}

	cfg := &Config{
		GeminiAPIKey:     apiKey,
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		OutputDir:        envutil.GetEnv("OUTPUT_DIR", DefaultOutputDir),
		RateInterval:     getDuration("RATE_INTERVAL", kitconfig.DefaultRateInterval),
		MaxImages:        getInt("MAX_IMAGES", 0),
		ImageTimeout:     getDuration("IMAGE_TIMEOUT", 0),
		ServerAddr:       envutil.GetEnv("SERVER_ADDR", DefaultServerAddr),
		RunTimeout:       getDuration("RUN_TIMEOUT", DefaultRunTimeout),
		CookieSecure:     getBool("COOKIE_SECURE", false),
	}
	return cfg
}

// KitConfig はライブラリ側の設定に変換するのだ。
func (c *Config) KitConfig() kitconfig.Config {
	kc := kitconfig.DefaultConfig()
	kc.GeminiAPIKey = c.GeminiAPIKey
	kc.GeminiModel = c.GeminiModel
	kc.ImageModel = c.GeminiImageModel
	kc.OutputDir = c.OutputDir
	kc.RateInterval = c.RateInterval
	return kc.WithDefaults()
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("環境変数の期間指定を解釈できないのでデフォルト値を使うのだ", "key", key, "value", raw, "error", err)
		return def
	}
	return d
}

func getInt(key string, def int) int {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("環境変数の整数指定を解釈できないのでデフォルト値を使うのだ", "key", key, "value", raw, "error", err)
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("環境変数の真偽値を解釈できないのでデフォルト値を使うのだ", "key", key, "value", raw, "error", err)
		return def
	}
	return b
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 入力関連
	Premise    string // --premise
	InputFile  string // --input-file
	ScriptFile string // --script-file
	StyleFile  string // --style-file

	// AI挙動設定
	AIModel    string // --model: テキスト生成用のGeminiモデル
	ImageModel string // --image-model: 画像生成用のGeminiモデル

	// 出力・実行制御
	OutputDir           string        // --output-dir
	MaxImages           int           // --max-images
	ImageTimeout        time.Duration // --image-timeout
	StrictStages        bool          // --strict
	StrictScript        bool          // --strict-script
	WithCharacterDesign bool          // --with-character-design
	Verbose             bool          // --verbose

	// サーバー
	Addr string // --addr
}
