package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
	"github.com/syzomnia-el/osu-searcher/pkg/config"
	"github.com/syzomnia-el/osu-searcher/pkg/dupe"
	"github.com/syzomnia-el/osu-searcher/pkg/logger"
	"github.com/syzomnia-el/osu-searcher/pkg/query"
	"github.com/syzomnia-el/osu-searcher/pkg/runtime"
	"github.com/syzomnia-el/osu-searcher/pkg/ui"
)

const shellHelp = `commands:
  list            list every beatmap set
  find <query>    search with [field=]keyword (fields: sid, name, artist)
  check           find duplicate sets
  flush           rebuild the cache from scratch
  path [folder]   show or change the songs folder
  help            show this help
  exit            leave the shell`

func ShellCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell",
		Long:  `This command starts an interactive shell, scanning once up front so queries are instant.`,

		Args: cobra.NoArgs,
	}

	command.Run = shellRun

	return command
}

func shellRun(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	// init core
	if !initialized {
		initCore(true)
		initialized = true
	}

	// set log
	log := logger.GetLogger("shell")

	st := openStore(log)
	defer st.Close()

	idx := beatmap.NewIndex()
	if config.Config.SongsPath == "" {
		fmt.Println(ui.Warning("no songs path configured, set one with: path /path/to/osu!/Songs"))
	} else {
		idx, _ = loadIndex(ctx, log, st, false)
	}

	fmt.Println(ui.Banner(runtime.Version))
	fmt.Println(ui.Dim("type help for the command list"))

	input := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(ui.Prompt())

		if !input.Scan() {
			break
		}

		line := strings.TrimSpace(input.Text())
		if line == "" {
			continue
		}

		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(name) {
		case "exit", "quit":
			return

		case "help":
			fmt.Println(shellHelp)

		case "list":
			fmt.Println(ui.RenderSets(idx.Sets()))

		case "find":
			q, err := query.Compile(rest)
			if err != nil {
				fmt.Println(ui.Error(err.Error()))
				continue
			}

			matches, err := q.Run(idx)
			if err != nil {
				fmt.Println(ui.Error(err.Error()))
				continue
			}

			fmt.Println(ui.RenderMatches(matches))

		case "check":
			fmt.Println(ui.RenderGroups(dupe.Find(idx)))

		case "flush":
			if config.Config.SongsPath == "" {
				fmt.Println(ui.Warning("no songs path configured"))
				continue
			}

			idx, _ = loadIndex(ctx, log, st, true)
			fmt.Println(ui.Success("cache rebuilt"))

		case "path":
			if rest == "" {
				if config.Config.SongsPath == "" {
					fmt.Println(ui.Warning("no songs path configured"))
				} else {
					fmt.Println(config.Config.SongsPath)
				}
				continue
			}

			p, err := setSongsPath(rest)
			if err != nil {
				fmt.Println(ui.Error(err.Error()))
				continue
			}

			fmt.Println(ui.Success(fmt.Sprintf("songs path set: %s", p)))
			idx, _ = loadIndex(ctx, log, st, false)

		default:
			fmt.Println(ui.Warning(fmt.Sprintf("unknown command %q, type help for the command list", name)))
		}
	}

	if err := input.Err(); err != nil {
		log.WithError(err).Error("Failed reading input")
	}
}
