package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MangaScript は Script 工程で AI が返す台本全体の構造です。
type MangaScript struct {
	Title    string    `json:"title,omitempty"`
	Chapters []Chapter `json:"chapters"`
}

// Chapter は台本の1章分です。
type Chapter struct {
	Number int     `json:"chapter"`
	Title  string  `json:"title"`
	Scenes []Scene `json:"scenes"`
}

// Scene は1つの場面の舞台、ナレーション、登場人物、セリフを保持します。
type Scene struct {
	ID         int            `json:"scene_id"`
	Setting    string         `json:"setting"`
	Narration  Narration      `json:"narration,omitempty"`
	Characters []string       `json:"characters,omitempty"`
	Dialogue   []DialogueLine `json:"dialogue,omitempty"`
}

// DialogueLine はキャラクターのセリフ1行です。
type DialogueLine struct {
	Character string `json:"character"`
	Line      string `json:"line"`
}

// Narration はナレーションの行リストです。
// AI は文字列1つで返すこともあれば配列で返すこともあるので、両方を受け付けます。
type Narration []string

// UnmarshalJSON は文字列と文字列配列の両方を Narration として読み込みます。
func (n *Narration) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*n = nil
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("ナレーション文字列のデコードに失敗しました: %w", err)
		}
		if s == "" {
			*n = nil
			return nil
		}
		*n = Narration{s}
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("ナレーション配列のデコードに失敗しました: %w", err)
	}
	*n = lines
	return nil
}
