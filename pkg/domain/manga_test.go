package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleChapterJSON = `{
	"chapter": 1,
	"title": "Blood Moon Awakening",
	"scenes": [
		{
			"scene_id": 1,
			"setting": "Snowy mountain village, late evening",
			"narration": ["The mountain village lived in quiet isolation."],
			"characters": ["Kaito (protagonist)", "Mother", "Younger Sister Hana"],
			"dialogue": [
				{ "character": "Mother", "line": "Kaito, don't stay too long in the forest." },
				{ "character": "Kaito", "line": "I'll return before moonrise." }
			]
		},
		{
			"scene_id": 2,
			"setting": "Forest path, under a blood-red moon",
			"narration": "The forest was still. Too still.",
			"characters": ["Kaito", "Unknown Demon"],
			"dialogue": [
				{ "character": "Unknown Demon", "line": "Heh... your scent is strong, boy." }
			]
		}
	]
}`

func TestChapter_JSON(t *testing.T) {
	t.Run("AIからの章形式をシミュレートするのだ", func(t *testing.T) {
		var ch Chapter
		if err := json.Unmarshal([]byte(sampleChapterJSON), &ch); err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}

		if ch.Number != 1 || ch.Title != "Blood Moon Awakening" {
			t.Errorf("章の情報が違うのだ: %+v", ch)
		}
		if len(ch.Scenes) != 2 {
			t.Fatalf("シーン数が違うのだ: %d", len(ch.Scenes))
		}
		if diff := cmp.Diff(Narration{"The forest was still. Too still."}, ch.Scenes[1].Narration); diff != "" {
			t.Errorf("文字列のナレーションが配列として読めていないのだ (-want +got):\n%s", diff)
		}
		if ch.Scenes[0].Dialogue[1].Character != "Kaito" {
			t.Errorf("セリフの話者が違うのだ: %+v", ch.Scenes[0].Dialogue[1])
		}
	})

	t.Run("ナレーションが null でも読めるのだ", func(t *testing.T) {
		var sc Scene
		if err := json.Unmarshal([]byte(`{"scene_id": 3, "narration": null}`), &sc); err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}
		if sc.Narration != nil {
			t.Errorf("nil のはずなのだ: %v", sc.Narration)
		}
	})

	t.Run("ナレーションが数値ならエラーなのだ", func(t *testing.T) {
		var sc Scene
		if err := json.Unmarshal([]byte(`{"narration": 42}`), &sc); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})
}

func TestMangaScript_Helpers(t *testing.T) {
	var ch Chapter
	if err := json.Unmarshal([]byte(sampleChapterJSON), &ch); err != nil {
		t.Fatalf("パース失敗なのだ: %v", err)
	}
	script := MangaScript{Chapters: []Chapter{ch, {Number: 2, Scenes: []Scene{{ID: 3}}}}}

	if got := script.SceneCount(); got != 3 {
		t.Errorf("シーン数が違うのだ: %d", got)
	}
	if got := script.DialogueCount(); got != 3 {
		t.Errorf("セリフ数が違うのだ: %d", got)
	}

	want := []Character{
		{Name: "Kaito", Note: "protagonist"},
		{Name: "Mother"},
		{Name: "Unknown Demon"},
		{Name: "Younger Sister Hana"},
	}
	if diff := cmp.Diff(want, script.UniqueCharacters()); diff != "" {
		t.Errorf("登場人物が違うのだ (-want +got):\n%s", diff)
	}
}
