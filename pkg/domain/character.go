package domain

import (
	"fmt"
	"strings"
)

// Character は台本の characters 欄に書かれた登場人物なのだ。
// "Kaito (protagonist)" のような表記は Name と Note に分けて持つのだ。
type Character struct {
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// ParseCharacter は "名前 (補足)" 形式の文字列を Character に分解するのだ。
func ParseCharacter(raw string) Character {
	raw = strings.TrimSpace(raw)
	open := strings.LastIndex(raw, "(")
	if open > 0 && strings.HasSuffix(raw, ")") {
		return Character{
			Name: strings.TrimSpace(raw[:open]),
			Note: strings.TrimSpace(raw[open+1 : len(raw)-1]),
		}
	}
	return Character{Name: raw}
}

// String はキャラクターの情報を文字列で返すのだ。
func (c Character) String() string {
	if c.Note == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Note)
}

// key は同一人物の判定に使う正規化済みの名前なのだ。
func (c Character) key() string {
	return strings.ToLower(c.Name)
}
