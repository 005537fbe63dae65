package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

func TestNewClient_MissingAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("ErrMissingAPIKey のはずなのだ: %v", err)
	}
}

func TestToChunk(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want Chunk
	}{
		{"nil の応答は空なのだ", nil, Chunk{}},
		{"候補なしは空なのだ", &genai.GenerateContentResponse{}, Chunk{}},
		{"コンテンツなしは空なのだ", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, Chunk{}},
		{
			"パーツなしは空なのだ",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
			Chunk{},
		},
		{
			"テキストと画像を変換するのだ",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Here is chapter one."},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}},
			}}}}},
			Chunk{Parts: []Part{
				{Text: "Here is chapter one."},
				{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toChunk(tt.resp)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("変換結果が違うのだ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToContents(t *testing.T) {
	contents := toContents([]Turn{{Role: RoleModel, Text: "persona"}, {Text: "task"}})
	if len(contents) != 2 {
		t.Fatalf("ターン数が違うのだ: %d", len(contents))
	}
	if contents[0].Role != RoleModel || contents[0].Parts[0].Text != "persona" {
		t.Errorf("モデル側のターンが違うのだ: %+v", contents[0])
	}
	if contents[1].Role != RoleUser {
		t.Errorf("ロール未指定はユーザー扱いのはずなのだ: %s", contents[1].Role)
	}
}

func TestToConfig(t *testing.T) {
	cfg := toConfig(Request{Temperature: genai.Ptr[float32](1), ResponseModalities: []string{ModalityImage}})
	if cfg.Temperature == nil || *cfg.Temperature != 1 {
		t.Errorf("温度が反映されていないのだ: %v", cfg.Temperature)
	}
	if diff := cmp.Diff([]string{"IMAGE"}, cfg.ResponseModalities); diff != "" {
		t.Errorf("モダリティが違うのだ (-want +got):\n%s", diff)
	}
}

func TestNewLimiter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlimited := newLimiter(0)
	for i := 0; i < 100; i++ {
		if err := unlimited.Wait(ctx); err != nil {
			t.Fatalf("無制限のはずなのだ: %v", err)
		}
	}

	limited := newLimiter(time.Hour)
	if !limited.Allow() {
		t.Fatal("最初の1回は通るはずなのだ")
	}
	if limited.Allow() {
		t.Error("2回目は間隔内なので拒否されるはずなのだ")
	}
}

func TestChunk_Text(t *testing.T) {
	c := Chunk{Parts: []Part{{Text: "a"}, {Data: []byte{1}}, {Text: "b"}}}
	if c.Text() != "ab" {
		t.Errorf("テキストの連結が違うのだ: %q", c.Text())
	}
	if !c.Parts[1].HasData() || c.Parts[0].HasData() {
		t.Error("HasData の判定が違うのだ")
	}
}
