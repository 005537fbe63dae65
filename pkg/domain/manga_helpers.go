package domain

import "sort"

// SceneCount は全章のシーン数の合計を返します。
func (m MangaScript) SceneCount() int {
	n := 0
	for _, ch := range m.Chapters {
		n += len(ch.Scenes)
	}
	return n
}

// DialogueCount は全シーンのセリフ行数の合計を返します。
func (m MangaScript) DialogueCount() int {
	n := 0
	for _, ch := range m.Chapters {
		for _, sc := range ch.Scenes {
			n += len(sc.Dialogue)
		}
	}
	return n
}

// UniqueCharacters は characters 欄とセリフの話者から重複しない登場人物を名前順で返します。
// 同じ名前が複数回現れた場合は、補足情報を持つ最初の表記を採用します。
func (m MangaScript) UniqueCharacters() []Character {
	set := make(map[string]Character)
	add := func(c Character) {
		if c.Name == "" {
			return
		}
		if existing, ok := set[c.key()]; ok {
			if existing.Note == "" && c.Note != "" {
				set[c.key()] = c
			}
			return
		}
		set[c.key()] = c
	}

	for _, ch := range m.Chapters {
		for _, sc := range ch.Scenes {
			for _, raw := range sc.Characters {
				add(ParseCharacter(raw))
			}
			for _, d := range sc.Dialogue {
				add(ParseCharacter(d.Character))
			}
		}
	}

	chars := make([]Character, 0, len(set))
	for _, c := range set {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool {
		return chars[i].key() < chars[j].key()
	})
	return chars
}
