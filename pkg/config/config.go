package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultImageModel       = "gemini-2.5-flash-image-preview"
	DefaultOutputDir        = "."
	DefaultImagesPerChapter = 4
	DefaultRateInterval     = 0 * time.Second
)

// Config は Manga Creator の各工程を動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiModel string // テキスト工程（Story / Script / VisualStyle / CharacterDesign）
	ImageModel  string // 画像工程

	// --- Google AI (Gemini API) Settings ---
	GeminiAPIKey string

	// --- Generation Settings ---
	ImagesPerChapter int
	RateInterval     time.Duration

	// --- Output Settings ---
	OutputDir string
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:      DefaultGeminiModel,
		ImageModel:       DefaultImageModel,
		ImagesPerChapter: DefaultImagesPerChapter,
		RateInterval:     DefaultRateInterval,
		OutputDir:        DefaultOutputDir,
	}
}

// WithDefaults は空のフィールドをデフォルト値で埋めたコピーを返します。
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.GeminiModel == "" {
		c.GeminiModel = d.GeminiModel
	}
	if c.ImageModel == "" {
		c.ImageModel = d.ImageModel
	}
	if c.ImagesPerChapter <= 0 {
		c.ImagesPerChapter = d.ImagesPerChapter
	}
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	return c
}
