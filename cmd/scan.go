package cmd

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/syzomnia-el/osu-searcher/pkg/logger"
)

func ScanCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "scan",
		Short: "Refresh the collection index",
		Long: `This command rescans the songs folder and refreshes the cache. Folders
that have not changed since the last scan are reused without reparsing.`,

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
		log := logger.GetLogger("scan")

		st := openStore(log)
		defer st.Close()

		_, report := loadIndex(ctx, log, st, false)

		log.WithField("duration", report.Duration.Round(time.Millisecond)).
			Infof("Scanned %s folders: %s sets, %s charts (%d parsed, %d reused, %d skipped)",
				humanize.Comma(int64(report.Folders)), humanize.Comma(int64(report.Sets)),
				humanize.Comma(int64(report.Charts)), report.ChartsParsed, report.Reused, report.Skipped)

		if info, ok, err := st.Stats(ctx); err != nil {
			log.WithError(err).Warn("Failed reading cache info")
		} else if ok {
			log.Debugf("Cache revision: %s (written %s)", info.Revision, humanize.Time(info.BuiltAt))
		}
	}

	return command
}
