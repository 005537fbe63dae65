package oracle

import (
	"context"
	"iter"
	"strings"
)

const (
	// RoleUser はユーザー側のターンを表します。
	RoleUser = "user"
	// RoleModel はモデル側（ペルソナ指示）のターンを表します。
	RoleModel = "model"

	// ModalityImage は画像での応答を要求するときのモダリティです。
	ModalityImage = "IMAGE"
	// ModalityText はテキストでの応答を要求するときのモダリティです。
	ModalityText = "TEXT"
)

// Oracle は生成 AI サービスへの単発リクエストとストリーミングリクエストの契約です。
type Oracle interface {
	Generate(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error]
}

// Request はモデルへの1回分の依頼内容です。
type Request struct {
	Model              string
	Turns              []Turn
	Temperature        *float32
	ResponseModalities []string
}

// Turn は会話の1ターンです。Role が空ならユーザーとして扱われます。
type Turn struct {
	Role string
	Text string
}

// Chunk はストリーミング応答の1単位です。パーツを持たないこともあります。
type Chunk struct {
	Parts []Part
}

// Part はテキストまたはバイナリ（MIME タイプ付き）を保持します。
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// HasData はバイナリデータを持つかを返します。
func (p Part) HasData() bool {
	return len(p.Data) > 0
}

// Text はチャンク内のテキストパーツを連結して返します。
func (c Chunk) Text() string {
	var sb strings.Builder
	for _, p := range c.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// UserPrompt は単一のユーザーターンからなる Request を組み立てるヘルパーです。
func UserPrompt(model, prompt string, temperature *float32) Request {
	return Request{
		Model:       model,
		Turns:       []Turn{{Role: RoleUser, Text: prompt}},
		Temperature: temperature,
	}
}
