package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_MODEL", "IMAGE_GEMINI_MODEL", "OUTPUT_DIR",
		"RATE_INTERVAL", "MAX_IMAGES", "IMAGE_TIMEOUT", "SERVER_ADDR", "RUN_TIMEOUT", "COOKIE_SECURE",
	} {
		// t.Setenv で後片付けを登録してから未設定状態にする
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("未設定ならデフォルト値なのだ", func(t *testing.T) {
		clearEnv(t)
		cfg := LoadConfig()

		if cfg.GeminiAPIKey != "" {
			t.Errorf("API キーは空のはずなのだ: %q", cfg.GeminiAPIKey)
		}
		if cfg.GeminiModel != "gemini-2.5-flash" || cfg.GeminiImageModel != "gemini-2.5-flash-image-preview" {
			t.Errorf("モデルのデフォルトが違うのだ: %s / %s", cfg.GeminiModel, cfg.GeminiImageModel)
		}
		if cfg.OutputDir != "." || cfg.ServerAddr != DefaultServerAddr || cfg.RunTimeout != DefaultRunTimeout {
			t.Errorf("デフォルト値が違うのだ: %+v", cfg)
		}
		if cfg.CookieSecure || cfg.MaxImages != 0 || cfg.ImageTimeout != 0 {
			t.Errorf("デフォルト値が違うのだ: %+v", cfg)
		}
	})

	t.Run("環境変数を読み込むのだ", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini-key")
		t.Setenv("GEMINI_MODEL", "text-x")
		t.Setenv("OUTPUT_DIR", "/tmp/out")
		t.Setenv("RATE_INTERVAL", "2s")
		t.Setenv("MAX_IMAGES", "8")
		t.Setenv("COOKIE_SECURE", "true")

		cfg := LoadConfig()
		if cfg.GeminiAPIKey != "gemini-key" || cfg.GeminiModel != "text-x" || cfg.OutputDir != "/tmp/out" {
			t.Errorf("読み込み結果が違うのだ: %+v", cfg)
		}
		if cfg.RateInterval != 2*time.Second || cfg.MaxImages != 8 || !cfg.CookieSecure {
			t.Errorf("型変換の結果が違うのだ: %+v", cfg)
		}
	})

	t.Run("GOOGLE_API_KEY にフォールバックするのだ", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google-key")
		if got := LoadConfig().GeminiAPIKey; got != "google-key" {
			t.Errorf("フォールバックしていないのだ: %q", got)
		}
	})

	t.Run("解釈できない値はデフォルトに戻すのだ", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RUN_TIMEOUT", "soon")
		t.Setenv("MAX_IMAGES", "many")
		cfg := LoadConfig()
		if cfg.RunTimeout != DefaultRunTimeout || cfg.MaxImages != 0 {
			t.Errorf("デフォルトに戻っていないのだ: %+v", cfg)
		}
	})
}

func TestConfig_KitConfig(t *testing.T) {
	cfg := &Config{GeminiAPIKey: "k", GeminiModel: "m", RateInterval: time.Second}
	kc := cfg.KitConfig()
	if kc.GeminiAPIKey != "k" || kc.GeminiModel != "m" || kc.RateInterval != time.Second {
		t.Errorf("変換結果が違うのだ: %+v", kc)
	}
	if kc.ImageModel != DefaultImageModel || kc.OutputDir != DefaultOutputDir {
		t.Errorf("空の値はデフォルトで補うはずなのだ: %+v", kc)
	}
}
