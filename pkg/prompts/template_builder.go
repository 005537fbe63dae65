package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

const (
	// DefaultImagesPerChapter は画像工程で章ごとに依頼する枚数です。
	DefaultImagesPerChapter = 4
	// DefaultDialogueLanguage は画像内のセリフに使う言語です。
	DefaultDialogueLanguage = "English"

	imageSystemName = "image_system"
	imageUserName   = "image_user"
)

// TextPromptBuilder はテキスト工程のプロンプト構成を管理し、モード選択のロジックを内包します。
type TextPromptBuilder struct {
	templates map[string]*template.Template
}

// NewTextPromptBuilder は TextPromptBuilder を初期化します。
func NewTextPromptBuilder() (*TextPromptBuilder, error) {
	parsedTemplates := make(map[string]*template.Template)
	for mode, content := range allTemplates {
		tmpl, err := parseTemplate(mode, content)
		if err != nil {
			return nil, err
		}
		parsedTemplates[mode] = tmpl
	}

	return &TextPromptBuilder{
		templates: parsedTemplates,
	}, nil
}

// Build は、要求されたモードに応じて適切なテンプレートを実行します。
func (b *TextPromptBuilder) Build(mode string, data TemplateData) (string, error) {
	tmpl, ok := b.templates[mode]
	if !ok {
		return "", fmt.Errorf("不明なモードです: '%s'", mode)
	}
	return execute(tmpl, data)
}

// ImagePromptBuilder は画像工程の2ターン分のプロンプトを組み立てます。
type ImagePromptBuilder struct {
	system *template.Template
	user   *template.Template
}

// NewImagePromptBuilder は ImagePromptBuilder を初期化します。
func NewImagePromptBuilder() (*ImagePromptBuilder, error) {
	system, err := parseTemplate(imageSystemName, ImageSystemPrompt)
	if err != nil {
		return nil, err
	}
	user, err := parseTemplate(imageUserName, ImageUserPrompt)
	if err != nil {
		return nil, err
	}
	return &ImagePromptBuilder{system: system, user: user}, nil
}

// Build はシステム側とユーザー側のプロンプトを返します。
// 枚数と言語が未指定ならデフォルト値で補います。
func (b *ImagePromptBuilder) Build(data ImageTemplateData) (string, string, error) {
	if data.ImagesPerChapter <= 0 {
		data.ImagesPerChapter = DefaultImagesPerChapter
	}
	if data.Language == "" {
		data.Language = DefaultDialogueLanguage
	}

	systemPrompt, err := execute(b.system, data)
	if err != nil {
		return "", "", err
	}
	userPrompt, err := execute(b.user, data)
	if err != nil {
		return "", "", err
	}
	return systemPrompt, userPrompt, nil
}

func parseTemplate(name, content string) (*template.Template, error) {
	if content == "" {
		return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) の読み込みに失敗しました: 内容が空です", name)
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", name, err)
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}
