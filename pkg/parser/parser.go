package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/go-manga-creator/pkg/domain"
)

var (
	// ErrEmptyScript は台本テキストが空のときに返されます。
	ErrEmptyScript = errors.New("台本が空です")
	// ErrNoChapters は台本に章が1つも含まれないときに返されます。
	ErrNoChapters = errors.New("台本に章が含まれていません")
)

// Parser は AI が返した台本テキストを構造化データに変換する契約です。
type Parser interface {
	Parse(raw string) (*domain.MangaScript, error)
}

// ScriptParser は JSON 形式の台本を解析する Parser 実装です。
type ScriptParser struct{}

// NewScriptParser は新しい ScriptParser を生成します。
func NewScriptParser() *ScriptParser {
	return &ScriptParser{}
}

// Parse は ParseScript に委譲します。
func (ScriptParser) Parse(raw string) (*domain.MangaScript, error) {
	return ParseScript(raw)
}

// ParseScript は台本テキストから JSON を抜き出し、domain.MangaScript に変換して検証します。
// 章オブジェクト単体、章の配列、chapters フィールドを持つオブジェクトのいずれも受け付けます。
func ParseScript(raw string) (*domain.MangaScript, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyScript
	}

	// 最初に検証まで通った候補を採用し、無ければ最初に得られたエラーを返す
	var decodeErr, validateErr error
	for _, candidate := range jsonCandidates(raw) {
		script, err := decodeScript([]byte(candidate))
		if err != nil {
			if decodeErr == nil {
				decodeErr = err
			}
			continue
		}
		if err := Validate(script); err != nil {
			if validateErr == nil {
				validateErr = err
			}
			continue
		}
		return script, nil
	}
	if validateErr != nil {
		return nil, validateErr
	}
	return nil, fmt.Errorf("AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, 200), decodeErr)
}

// Validate は台本が最低限の構造（1章以上、各章1シーン以上）を満たすか検証します。
func Validate(script *domain.MangaScript) error {
	if script == nil || len(script.Chapters) == 0 {
		return ErrNoChapters
	}
	for i, ch := range script.Chapters {
		if len(ch.Scenes) == 0 {
			return fmt.Errorf("%d 番目の章 (%q) にシーンがありません", i+1, ch.Title)
		}
	}
	return nil
}

// decodeScript は3種類の JSON 形状を判別して MangaScript に変換します。
func decodeScript(data []byte) (*domain.MangaScript, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var chapters []domain.Chapter
		if err := json.Unmarshal(data, &chapters); err != nil {
			return nil, err
		}
		return &domain.MangaScript{Chapters: chapters}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	if _, ok := probe["chapters"]; ok {
		var script domain.MangaScript
		if err := json.Unmarshal(data, &script); err != nil {
			return nil, err
		}
		return &script, nil
	}

	var ch domain.Chapter
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, err
	}
	return &domain.MangaScript{Title: ch.Title, Chapters: []domain.Chapter{ch}}, nil
}
