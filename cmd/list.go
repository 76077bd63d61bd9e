package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syzomnia-el/osu-searcher/pkg/logger"
	"github.com/syzomnia-el/osu-searcher/pkg/ui"
)

func ListCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "List every beatmap set in the collection",
		Long:  `This command lists every indexed beatmap set, one row per songs subfolder.`,

		Args: cobra.NoArgs,
	}

	command.Run = func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		// init core
		if !initialized {
			initCore(true)
			initialized = true
		}

		// set log
		log := logger.GetLogger("list")

		st := openStore(log)
		defer st.Close()

		idx, _ := loadIndex(ctx, log, st, false)

		fmt.Println(ui.RenderSets(idx.Sets()))
	}

	return command
}
