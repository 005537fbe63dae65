package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shouni/go-manga-creator/internal/builder"
	"github.com/shouni/go-manga-creator/internal/config"
	"github.com/shouni/go-manga-creator/pkg/oracle"
	"github.com/shouni/go-manga-creator/pkg/oracle/oracletest"
	"github.com/shouni/go-manga-creator/pkg/workflow"
)

func newApp(t *testing.T, mock *oracletest.MockOracle) *builder.AppContext {
	t.Helper()
	app, err := builder.NewAppContext(context.Background(), &config.Config{OutputDir: t.TempDir()}, mock, nil)
	if err != nil {
		t.Fatalf("AppContext の初期化に失敗したのだ: %v", err)
	}
	return app
}

func TestExecute(t *testing.T) {
	mock := oracletest.New().
		EnqueueText("STORY", `{"chapter": 1, "title": "T", "scenes": [{"scene_id": 1}]}`, "STYLE").
		EnqueueStream(oracletest.StreamResult{Chunks: []oracle.Chunk{
			oracletest.TextChunk("drawing..."),
			oracletest.ImageChunk("image/png", []byte("img")),
		}})
	app := newApp(t, mock)

	var out bytes.Buffer
	res, err := Execute(context.Background(), app, config.DefaultPremise, &out)
	if err != nil {
		t.Fatalf("実行に失敗したのだ: %v", err)
	}

	printed := out.String()
	scriptAt := strings.Index(printed, `"chapter": 1`)
	styleAt := strings.Index(printed, "STYLE")
	commentAt := strings.Index(printed, "drawing...")
	if scriptAt < 0 || styleAt < 0 || commentAt < 0 {
		t.Fatalf("台本・スタイル・コメントが出力されていないのだ:\n%s", printed)
	}
	if !(scriptAt < styleAt && styleAt < commentAt) {
		t.Errorf("台本とスタイルは画像工程より前に出力されるはずなのだ:\n%s", printed)
	}
	if strings.Contains(printed, "STORY") {
		t.Errorf("あらすじは出力しないのだ:\n%s", printed)
	}

	want := filepath.Join(app.Config.OutputDir, "avillage", "STORIES_0.png")
	if len(res.Artifacts) != 1 || res.Artifacts[0] != want {
		t.Errorf("保存先が違うのだ: %v (期待値 %s)", res.Artifacts, want)
	}
}

func TestExecute_WarningsUseAppLogger(t *testing.T) {
	mock := oracletest.New().
		EnqueueGenerate(oracletest.GenerateResult{Err: errors.New("story down")}).
		EnqueueText(`{"chapter": 1, "title": "T", "scenes": [{"scene_id": 1}]}`, "STYLE").
		EnqueueStream(oracletest.StreamResult{})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	app, err := builder.NewAppContext(context.Background(), &config.Config{OutputDir: t.TempDir()}, mock, logger)
	if err != nil {
		t.Fatalf("AppContext の初期化に失敗したのだ: %v", err)
	}

	res, err := Execute(context.Background(), app, config.DefaultPremise, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("実行に失敗したのだ: %v", err)
	}
	if !res.Degraded(workflow.StageStory) {
		t.Fatalf("あらすじ工程が劣化しているはずなのだ: %+v", res.Warnings)
	}
	if !strings.Contains(logs.String(), "一部の工程が劣化したまま完了したのだ") || !strings.Contains(logs.String(), "stage=story") {
		t.Errorf("注入したロガーに警告が出ていないのだ:\n%s", logs.String())
	}
}

func TestExecuteStage(t *testing.T) {
	t.Run("指定した工程だけを実行するのだ", func(t *testing.T) {
		mock := oracletest.New().EnqueueText("- Kaito: tall")
		app := newApp(t, mock)

		var out bytes.Buffer
		if err := ExecuteStage(context.Background(), app, workflow.StageCharacterDesign, "SCRIPT", &out); err != nil {
			t.Fatalf("実行に失敗したのだ: %v", err)
		}
		if strings.TrimSpace(out.String()) != "- Kaito: tall" {
			t.Errorf("出力が違うのだ: %q", out.String())
		}
		if reqs := mock.GenerateRequests(); len(reqs) != 1 || !strings.Contains(reqs[0].Turns[0].Text, "SCRIPT") {
			t.Errorf("入力が渡っていないのだ: %+v", reqs)
		}
	})

	t.Run("失敗は StageError で返すのだ", func(t *testing.T) {
		mock := oracletest.New().EnqueueGenerate(oracletest.GenerateResult{Err: errors.New("down")})
		app := newApp(t, mock)

		err := ExecuteStage(context.Background(), app, workflow.StageStory, "premise", &bytes.Buffer{})
		var stageErr *workflow.StageError
		if !errors.As(err, &stageErr) || stageErr.Stage != workflow.StageStory {
			t.Errorf("Story の StageError のはずなのだ: %v", err)
		}
	})

	t.Run("画像工程は指定できないのだ", func(t *testing.T) {
		app := newApp(t, oracletest.New())
		if err := ExecuteStage(context.Background(), app, workflow.StageImage, "", &bytes.Buffer{}); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})
}

func TestExecuteImageOnly(t *testing.T) {
	dir := t.TempDir()
	scriptFile := filepath.Join(dir, "script.json")
	styleFile := filepath.Join(dir, "style.md")
	if err := os.WriteFile(scriptFile, []byte("SCRIPT-FROM-FILE\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(styleFile, []byte("STYLE-FROM-FILE"), 0o644); err != nil {
		t.Fatal(err)
	}

	mock := oracletest.New().EnqueueStream(oracletest.StreamResult{Chunks: []oracle.Chunk{
		oracletest.ImageChunk("image/jpeg", []byte("jpg")),
	}})
	app := newApp(t, mock)

	res, err := ExecuteImageOnly(context.Background(), app, "Hello World", scriptFile, styleFile, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("実行に失敗したのだ: %v", err)
	}
	if res.FolderKey != "helloworl" || len(res.Artifacts) != 1 || filepath.Base(res.Artifacts[0]) != "STORIES_0.jpeg" {
		t.Errorf("結果が違うのだ: %+v", res)
	}
	user := mock.StreamRequests()[0].Turns[1].Text
	if !strings.Contains(user, "SCRIPT-FROM-FILE") || !strings.Contains(user, "STYLE-FROM-FILE") {
		t.Errorf("ファイルの内容がプロンプトに入っていないのだ: %s", user)
	}
}

func TestExecuteImageOnly_StdinTwice(t *testing.T) {
	mock := oracletest.New()
	app := newApp(t, mock)

	_, err := ExecuteImageOnly(context.Background(), app, "Hello World", "-", "-", &bytes.Buffer{})
	if !errors.Is(err, ErrStdinReused) {
		t.Errorf("ErrStdinReused のはずなのだ: %v", err)
	}
	if len(mock.StreamRequests()) != 0 {
		t.Error("画像工程は呼ばれないはずなのだ")
	}
}

func TestReadInput(t *testing.T) {
	got, err := ReadInput("-", strings.NewReader("  from stdin \n"))
	if err != nil || got != "from stdin" {
		t.Errorf("stdin から読めていないのだ: %q, %v", got, err)
	}
	if _, err := ReadInput("", nil); err == nil {
		t.Error("空のパスはエラーのはずなのだ")
	}
	if _, err := ReadInput(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("存在しないファイルはエラーのはずなのだ")
	}
}
