package prompts

import (
	_ "embed"
)

const (
	ModeStory           = "story"
	ModeScript          = "script"
	ModeVisualStyle     = "visual_style"
	ModeCharacterDesign = "character_design"
)

// TemplateData はテキスト工程のプロンプトテンプレートに渡すデータ構造です。
type TemplateData struct {
	InputText string
}

// ImageTemplateData は画像工程の2ターン分のテンプレートに渡すデータ構造です。
type ImageTemplateData struct {
	Script           string
	VisualStyle      string
	ImagesPerChapter int
	Language         string
}

var (
	//go:embed story.md
	StoryPrompt string
	//go:embed script.md
	ScriptPrompt string
	//go:embed visual_style.md
	VisualStylePrompt string
	//go:embed character_design.md
	CharacterDesignPrompt string

	//go:embed image_system.md
	ImageSystemPrompt string
	//go:embed image_user.md
	ImageUserPrompt string
)

// allTemplates はモードとテンプレート文字列を紐づけるマップなのだ。
var allTemplates = map[string]string{
	ModeStory:           StoryPrompt,
	ModeScript:          ScriptPrompt,
	ModeVisualStyle:     VisualStylePrompt,
	ModeCharacterDesign: CharacterDesignPrompt,
}
