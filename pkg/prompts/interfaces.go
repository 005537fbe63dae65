package prompts

// TextPrompt は、テキスト工程の AI プロンプトを構築する契約です。
type TextPrompt interface {
	// Build は、指定されたモード（例: "story", "script"）とデータに基づいてプロンプト文字列を生成します。
	Build(mode string, data TemplateData) (string, error)
}

// ImagePrompt は、画像工程の AI プロンプトを構築する契約です。
type ImagePrompt interface {
	// Build は、ペルソナを与えるシステム側のターンと、台本とスタイルを埋め込んだユーザー側のターンを生成します。
	Build(data ImageTemplateData) (systemPrompt string, userPrompt string, err error)
}
