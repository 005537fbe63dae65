package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-manga-creator/pkg/workflow"
)

// designCmd は、台本に登場するキャラクターの外見設定を生成するのだ。
var designCmd = &cobra.Command{
	Use:     "design",
	Short:   "台本からキャラクターデザインを生成するのだ。",
	Example: "  manga-creator design -f script.json > characters.md",
	RunE:    stageCommand(workflow.StageCharacterDesign),
}

func init() {
	addInputFlag(designCmd, "台本を読み込むファイルなのだ（'-'で標準入力）。")
}
