package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syzomnia-el/osu-searcher/pkg/expression"
	"github.com/syzomnia-el/osu-searcher/pkg/logger"
	"github.com/syzomnia-el/osu-searcher/pkg/query"
	"github.com/syzomnia-el/osu-searcher/pkg/ui"
)

var (
	findRegex  bool
	findFilter []string
)

func FindCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "find QUERY",
		Short: "Search the collection",
		Long: `This command searches the collection with a [field=]keyword query.

Fields: sid (exact set id), name (title substring), artist. Without a
field the keyword is matched against title, artist and creator.`,
		Example: `  osu-searcher find "freedom dive"
  osu-searcher find sid=39804
  osu-searcher find name=renatus --regex
  osu-searcher find artist=xi --filter 'Charts > 2'`,

		Args: cobra.MinimumNArgs(1),
	}

	command.Flags().BoolVar(&findRegex, "regex", false, "Treat the keyword as a regular expression")
	command.Flags().StringArrayVar(&findFilter, "filter", nil, "Keep only sets matching every expression")

	command.Run = func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		// init core
		if !initialized {
			initCore(true)
			initialized = true
		}

		// set log
		log := logger.GetLogger("find")

		// compile the query and filters before any disk work
		var opts []query.Option
		if findRegex {
			opts = append(opts, query.WithRegex())
		}

		q, err := query.Compile(strings.Join(args, " "), opts...)
		if err != nil {
			log.WithError(err).Fatal("Failed compiling query")
		}

		expressions, err := expression.Compile(findFilter)
		if err != nil {
			log.WithError(err).Fatal("Failed compiling filter expressions")
		}

		st := openStore(log)
		defer st.Close()

		idx, _ := loadIndex(ctx, log, st, false)

		matches, err := q.Run(idx)
		if err != nil {
			log.WithError(err).Fatal("Failed evaluating query")
		}

		if len(expressions) > 0 {
			filtered := make([]query.Match, 0, len(matches))
			for _, m := range matches {
				ok, err := expression.CheckSetAllMatch(m.Set, expressions)
				if err != nil {
					log.WithError(err).Fatal("Failed evaluating filter expressions")
				}

				if ok {
					filtered = append(filtered, m)
				}
			}

			matches = filtered
		}

		fmt.Println(ui.RenderMatches(matches))
	}

	return command
}
