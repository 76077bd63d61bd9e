package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syzomnia-el/osu-searcher/pkg/dupe"
	"github.com/syzomnia-el/osu-searcher/pkg/logger"
	"github.com/syzomnia-el/osu-searcher/pkg/ui"
)

func CheckCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "check",
		Short: "Find duplicate beatmap sets",
		Long: `This command finds sets that exist more than once, either sharing a
ranked set id or, for unsubmitted sets, identical metadata.`,

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
		log := logger.GetLogger("check")

		st := openStore(log)
		defer st.Close()

		idx, _ := loadIndex(ctx, log, st, false)

		fmt.Println(ui.RenderGroups(dupe.Find(idx)))
	}

	return command
}
