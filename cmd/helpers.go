package cmd

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
	"github.com/syzomnia-el/osu-searcher/pkg/config"
	"github.com/syzomnia-el/osu-searcher/pkg/logger"
	"github.com/syzomnia-el/osu-searcher/pkg/runtime"
	"github.com/syzomnia-el/osu-searcher/pkg/scanner"
	"github.com/syzomnia-el/osu-searcher/pkg/store"
)

var (
	// Global flags
	FlagLogLevel     = 0
	FlagConfigFile   = "config.json"
	FlagConfigFolder = config.GetDefaultConfigDirectory("osu-searcher", "config.json")
	FlagLogFile      = "activity.log"

	// Global vars
	log         *logrus.Entry
	initialized bool
)

func initCore(showAppInfo bool) {
	// init logging
	if err := logger.Init(FlagLogLevel, filepath.Join(FlagConfigFolder, FlagLogFile)); err != nil {
		logrus.WithError(err).Fatal("Failed initializing logger")
	}

	log = logger.GetLogger("app")

	if showAppInfo {
		log.Infof("Using osu-searcher %s (%s@%s)", runtime.Version, runtime.GitCommit, runtime.Timestamp)
		log.Infof("Using config: %q", filepath.Join(FlagConfigFolder, FlagConfigFile))
	}

	// init config
	if err := config.Init(filepath.Join(FlagConfigFolder, FlagConfigFile)); err != nil {
		log.WithError(err).Fatal("Failed initializing config")
	}
}

func openStore(log *logrus.Entry) *store.Store {
	st, err := store.Open(config.Config.CachePath)
	if err != nil {
		log.WithError(err).Fatalf("Failed opening cache: %q", config.Config.CachePath)
	}

	return st
}

// loadIndex scans the songs folder, reusing cached sets whose folders
// are unchanged, and writes the fresh snapshot back to the cache. With
// flush the cache is dropped first so every chart is reparsed.
func loadIndex(ctx context.Context, log *logrus.Entry, st *store.Store, flush bool) (*beatmap.Index, *scanner.Report) {
	if config.Config.SongsPath == "" {
		log.Fatal("No songs path configured, set one first: osu-searcher path /path/to/osu!/Songs")
	}

	var prev *beatmap.Index

	if flush {
		if err := st.Invalidate(ctx); err != nil {
			log.WithError(err).Fatal("Failed flushing cache")
		}
	} else {
		cached, ok, err := st.Load(ctx)
		if err != nil {
			log.WithError(err).Fatal("Failed loading cache")
		}

		if ok {
			prev = cached
		}
	}

	s := scanner.New(scanner.Options{
		Extensions: config.Config.ChartExtensions,
		Ignore:     config.Config.IgnoreFolders,
		Workers:    config.Config.Workers,
	})

	idx, report, err := s.Scan(ctx, config.Config.SongsPath, prev)
	if err != nil {
		log.WithError(err).Fatalf("Failed scanning songs: %q", config.Config.SongsPath)
	}

	for _, warning := range report.Warnings {
		log.Warn(warning)
	}

	// skip the write when the scan changed nothing
	if prev == nil || report.ChartsParsed > 0 || idx.Len() != prev.Len() {
		if err := st.Save(ctx, idx); err != nil {
			log.WithError(err).Warn("Failed saving cache")
		}
	}

	return idx, report
}
