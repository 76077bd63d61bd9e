package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/syzomnia-el/osu-searcher/pkg/config"
	"github.com/syzomnia-el/osu-searcher/pkg/logger"
	"github.com/syzomnia-el/osu-searcher/pkg/ui"
)

func PathCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "path [SONGS_FOLDER]",
		Short: "Show or change the songs folder",
		Long:  `This command shows the configured songs folder, or validates and saves a new one.`,
		Example: `  osu-searcher path
  osu-searcher path "/home/user/.local/share/osu/Songs"`,

		Args: cobra.MaximumNArgs(1),
	}

	command.Run = func(cmd *cobra.Command, args []string) {
		// init core
		if !initialized {
			initCore(true)
			initialized = true
		}

		// set log
		log := logger.GetLogger("path")

		if len(args) == 0 {
			if config.Config.SongsPath == "" {
				fmt.Println(ui.Warning("no songs path configured"))
				return
			}

			fmt.Println(config.Config.SongsPath)
			return
		}

		p, err := setSongsPath(args[0])
		if err != nil {
			log.WithError(err).Fatal("Failed setting songs path")
		}

		log.Infof("Songs path set: %q", p)
	}

	return command
}

// setSongsPath validates a folder and persists it to the config.
func setSongsPath(raw string) (string, error) {
	p, err := filepath.Abs(raw)
	if err != nil {
		return "", errors.Wrapf(err, "resolve path: %q", raw)
	}

	info, err := os.Stat(p)
	if err != nil {
		return "", errors.Wrapf(err, "stat path: %q", p)
	}
	if !info.IsDir() {
		return "", errors.Errorf("not a directory: %q", p)
	}

	config.Config.SongsPath = p
	if err := config.Save(); err != nil {
		return "", errors.Wrap(err, "save config")
	}

	return p, nil
}
