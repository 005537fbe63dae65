package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-manga-creator/pkg/workflow"
)

var styleCmd = &cobra.Command{
	Use:     "style",
	Short:   "台本からビジュアルスタイルガイドを生成するのだ。",
	Example: "  manga-creator style -f script.json > style.md",
	RunE:    stageCommand(workflow.StageVisualStyle),
}

func init() {
	addInputFlag(styleCmd, "台本を読み込むファイルなのだ（'-'で標準入力）。")
}
