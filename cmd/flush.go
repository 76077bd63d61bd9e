package cmd

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/syzomnia-el/osu-searcher/pkg/logger"
)

func FlushCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "flush",
		Short: "Rebuild the cache from scratch",
		Long: `This command drops the cache and reparses every chart file. Useful when
charts were edited in place without their folders changing.`,

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
		log := logger.GetLogger("flush")

		st := openStore(log)
		defer st.Close()

		_, report := loadIndex(ctx, log, st, true)

		log.WithField("duration", report.Duration.Round(time.Millisecond)).
			Infof("Rebuilt cache: %s sets, %s charts (%d parsed)",
				humanize.Comma(int64(report.Sets)), humanize.Comma(int64(report.Charts)), report.ChartsParsed)
	}

	return command
}
