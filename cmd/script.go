package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-manga-creator/pkg/workflow"
)

// scriptCmd は、あらすじから台本（JSON）だけを生成するのだ。
var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "あらすじから台本（JSON）のみを生成するのだ。",
	Long: `あらすじを読み込み、章・シーン・台詞からなる漫画の台本を JSON で出力するのだ。
画像生成は行わないのだよ。出力はそのまま image コマンドの --script-file に渡せるのだ。`,
	Example: "  manga-creator script -f story.md > script.json",
	RunE:    stageCommand(workflow.StageScript),
}

func init() {
	addInputFlag(scriptCmd, "あらすじを読み込むファイルなのだ（'-'で標準入力）。")
}
