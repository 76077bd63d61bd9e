package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syzomnia-el/osu-searcher/cmd"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "osu-searcher",
		Short: "A CLI osu! beatmap collection manager",
		Long: `A CLI application to index, search and deduplicate a local osu! beatmap collection.
`,
	}

	// Parse persistent flags
	rootCmd.PersistentFlags().StringVar(&cmd.FlagConfigFolder, "config-dir", cmd.FlagConfigFolder, "Config folder")
	rootCmd.PersistentFlags().StringVarP(&cmd.FlagConfigFile, "config", "c", cmd.FlagConfigFile, "Config file")
	rootCmd.PersistentFlags().StringVarP(&cmd.FlagLogFile, "log", "l", cmd.FlagLogFile, "Log file")
	rootCmd.PersistentFlags().CountVarP(&cmd.FlagLogLevel, "verbose", "v", "Verbose level")

	shellCmd := cmd.ShellCommand()

	rootCmd.AddCommand(cmd.ListCommand())
	rootCmd.AddCommand(cmd.FindCommand())
	rootCmd.AddCommand(cmd.CheckCommand())
	rootCmd.AddCommand(cmd.ScanCommand())
	rootCmd.AddCommand(cmd.FlushCommand())
	rootCmd.AddCommand(cmd.PathCommand())
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(cmd.VersionCommand())

	// running without a subcommand drops into the shell
	rootCmd.Run = shellCmd.Run

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
