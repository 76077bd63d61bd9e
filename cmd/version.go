package cmd

import (
	"fmt"

	"github.com/syzomnia-el/osu-searcher/pkg/runtime"

	"github.com/spf13/cobra"
)

func VersionCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Long:  `Print version info`,
		Example: `  osu-searcher version
  osu-searcher version --help`,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Printf("osu-searcher version: %s commit: %s built at: %s\n", runtime.Version, runtime.GitCommit, runtime.Timestamp)
		return nil
	}

	return command
}
