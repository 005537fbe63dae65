package server

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-manga-creator/pkg/domain"
)

func TestSpeakerClass(t *testing.T) {
	valid := regexp.MustCompile(`^speaker-[0-9a-f]{10}$`)

	t.Run("話者名から CSS 安全なクラス名を作るのだ", func(t *testing.T) {
		assert.Regexp(t, valid, speakerClass("Kaito"))
		assert.Regexp(t, valid, speakerClass("村長 <script>"))
	})
	t.Run("大文字小文字は区別しないのだ", func(t *testing.T) {
		assert.Equal(t, speakerClass("kaito"), speakerClass(" KAITO "))
		assert.Equal(t, speakerHue("kaito"), speakerHue("Kaito"))
	})
	t.Run("話者が空ならナレーション扱いなのだ", func(t *testing.T) {
		assert.Equal(t, narrationSpeaker, speakerClass(""))
		assert.Equal(t, 0, speakerHue(" "))
	})
	t.Run("別の話者は別のクラスなのだ", func(t *testing.T) {
		assert.NotEqual(t, speakerClass("Kaito"), speakerClass("Mira"))
	})
}

func TestSplitBalloon(t *testing.T) {
	tests := []struct {
		line     string
		wantText string
		wantKind balloon
	}{
		{"I will go.", "I will go.", balloonNormal},
		{"[shout] Run!", "Run!", balloonShout},
		{"Is this right? [thought]", "Is this right?", balloonThought},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			text, kind := splitBalloon(tt.line)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestBuildOutline(t *testing.T) {
	assert.Nil(t, buildOutline(nil))

	script := &domain.MangaScript{
		Title: "The Sword",
		Chapters: []domain.Chapter{{
			Number: 1,
			Title:  "The Oath",
			Scenes: []domain.Scene{{
				ID:         1,
				Setting:    "Village square",
				Narration:  domain.Narration{"Dawn breaks."},
				Characters: []string{"Chief (elder)"},
				Dialogue: []domain.DialogueLine{
					{Character: "Chief", Line: "[shout] Gather!"},
					{Character: "Mira", Line: "Already here."},
				},
			}},
		}},
	}

	out := buildOutline(script)
	require.NotNil(t, out)
	assert.Equal(t, "The Sword", out.Title)
	assert.Equal(t, 1, out.Scenes)
	assert.Equal(t, 2, out.Dialogue)
	require.Len(t, out.Chapters, 1)
	require.Len(t, out.Chapters[0].Scenes, 1)

	lines := out.Chapters[0].Scenes[0].Lines
	require.Len(t, lines, 2)
	assert.Equal(t, "Gather!", lines[0].Text)
	assert.Equal(t, balloonShout, lines[0].Balloon)
	assert.Equal(t, "right", lines[0].Side)
	assert.Equal(t, "left", lines[1].Side)
	assert.Equal(t, speakerClass("Chief"), lines[0].Class)
	assert.Equal(t, []string{"Dawn breaks."}, out.Chapters[0].Scenes[0].Narration)
}
