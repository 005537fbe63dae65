package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-manga-creator/pkg/workflow"
)

// storyCmd は、アイデアからあらすじだけを生成するのだ。
var storyCmd = &cobra.Command{
	Use:     "story",
	Short:   "アイデアからあらすじ（Markdown）だけを生成するのだ。",
	Example: `  manga-creator story -p "A lonely robot learns to paint"
  manga-creator story -f idea.txt > story.md`,
	RunE:    stageCommand(workflow.StageStory),
}

func init() {
	storyCmd.Flags().StringVarP(&opts.Premise, "premise", "p", "", "物語のアイデアなのだ（指定すると --input-file より優先するのだ）。")
	addInputFlag(storyCmd, "アイデアを読み込むファイルなのだ（'-'で標準入力）。")
}
