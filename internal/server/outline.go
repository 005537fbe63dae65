package server

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/shouni/go-manga-creator/pkg/domain"
)

const narrationSpeaker = "speaker-narration"

// balloon はセリフに含まれるメタタグから決まる吹き出しの種類です。
type balloon string

const (
	balloonNormal  balloon = "normal"
	balloonShout   balloon = "shout"
	balloonThought balloon = "thought"
)

type outlineLine struct {
	Speaker string
	Text    string
	Class   string
	Hue     int
	Balloon balloon
	Side    string
}

type outlineScene struct {
	ID        int
	Setting   string
	Narration []string
	Lines     []outlineLine
}

type outlineChapter struct {
	Number int
	Title  string
	Scenes []outlineScene
}

type scriptOutline struct {
	Title      string
	Chapters   []outlineChapter
	Characters []string
	Scenes     int
	Dialogue   int
}

// buildOutline は解析済みの台本を結果ページ用の表示モデルに変換します。
func buildOutline(script *domain.MangaScript) *scriptOutline {
	if script == nil {
		return nil
	}
	out := &scriptOutline{
		Title:    script.Title,
		Scenes:   script.SceneCount(),
		Dialogue: script.DialogueCount(),
	}
	for _, c := range script.UniqueCharacters() {
		out.Characters = append(out.Characters, c.String())
	}

	for _, ch := range script.Chapters {
		oc := outlineChapter{Number: ch.Number, Title: ch.Title}
		for _, sc := range ch.Scenes {
			scene := outlineScene{ID: sc.ID, Setting: sc.Setting, Narration: sc.Narration}
			for i, d := range sc.Dialogue {
				text, kind := splitBalloon(d.Line)
				scene.Lines = append(scene.Lines, outlineLine{
					Speaker: d.Character,
					Text:    text,
					Class:   speakerClass(d.Character),
					Hue:     speakerHue(d.Character),
					Balloon: kind,
					Side:    balloonSide(i),
				})
			}
			oc.Scenes = append(oc.Scenes, scene)
		}
		out.Chapters = append(out.Chapters, oc)
	}
	return out
}

func speakerDigest(name string) [sha256.Size]byte {
	return sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(name))))
}

// speakerClass は話者名から CSS で安全に使えるクラス名を作ります。大文字小文字は区別しません。
func speakerClass(name string) string {
	if strings.TrimSpace(name) == "" {
		return narrationSpeaker
	}
	sum := speakerDigest(name)
	return "speaker-" + hex.EncodeToString(sum[:5])
}

// speakerHue は話者ごとの吹き出しの色相 (0-359) です。
func speakerHue(name string) int {
	if strings.TrimSpace(name) == "" {
		return 0
	}
	sum := speakerDigest(name)
	return int(binary.BigEndian.Uint16(sum[:2]) % 360)
}

// splitBalloon は [shout] / [thought] タグを取り除き、吹き出しの種類を返します。
func splitBalloon(line string) (string, balloon) {
	kind := balloonNormal
	switch {
	case strings.Contains(line, "[shout]"):
		kind = balloonShout
	case strings.Contains(line, "[thought]"):
		kind = balloonThought
	}
	text := strings.NewReplacer("[shout]", "", "[thought]", "").Replace(line)
	return strings.TrimSpace(text), kind
}

// balloonSide は右から左へ読む流れに合わせ、セリフを左右交互に置きます。
func balloonSide(index int) string {
	if index%2 == 0 {
		return "right"
	}
	return "left"
}
