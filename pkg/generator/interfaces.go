package generator

import (
	"context"
	"iter"
)

// TextGenerator は、上流の入力テキストから次工程のテキストを生成する工程の契約です。
type TextGenerator interface {
	Generate(ctx context.Context, input string) (string, error)
}

// SceneImageGenerator は、台本とスタイルガイドから画像イベントを遅延生成する工程の契約です。
type SceneImageGenerator interface {
	Generate(ctx context.Context, script, visualStyle string) iter.Seq2[ImageEvent, error]
}
