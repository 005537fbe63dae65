package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStageInput(t *testing.T) {
	t.Run("直接渡したアイデアを優先するのだ", func(t *testing.T) {
		got, err := stageInput("  A lonely robot  ", "ignored.txt", nil)
		if err != nil || got != "A lonely robot" {
			t.Errorf("アイデアがそのまま使われていないのだ: %q, %v", got, err)
		}
	})

	t.Run("アイデアが無ければ入力ファイルを読むのだ", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "idea.txt")
		if err := os.WriteFile(path, []byte("From a file\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := stageInput("", path, nil)
		if err != nil || got != "From a file" {
			t.Errorf("ファイルが読めていないのだ: %q, %v", got, err)
		}
	})

	t.Run("- なら標準入力を読むのだ", func(t *testing.T) {
		got, err := stageInput("", "-", strings.NewReader("from stdin"))
		if err != nil || got != "from stdin" {
			t.Errorf("標準入力が読めていないのだ: %q, %v", got, err)
		}
	})

	t.Run("どちらも無ければエラーなのだ", func(t *testing.T) {
		if _, err := stageInput(" ", "", nil); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})
}

func TestStoryCommand_PremiseFlag(t *testing.T) {
	if f := storyCmd.Flags().Lookup("premise"); f == nil || f.Shorthand != "p" {
		t.Fatalf("story コマンドに --premise/-p が登録されていないのだ: %+v", f)
	}
}
