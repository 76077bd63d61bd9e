package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/pkg/errors"

	"github.com/syzomnia-el/osu-searcher/pkg/logger"
)

/* Const */

const Delimiter = "."

/* Structs */

type Configuration struct {
	SongsPath       string   `json:"songs_path" koanf:"songs_path"`
	CachePath       string   `json:"cache_path" koanf:"cache_path"`
	ChartExtensions []string `json:"chart_extensions" koanf:"chart_extensions"`
	IgnoreFolders   []string `json:"ignore_folders" koanf:"ignore_folders"`
	Workers         int      `json:"workers" koanf:"workers"`
}

/* Vars */

var (
	Config *Configuration
	K      *koanf.Koanf

	cfgPath = ""

	log = logger.GetLogger("cfg")
)

/* Public */

// Init loads the configuration, lowest priority first: built in
// defaults, then the json file, then OSU_ environment variables. A
// missing file is created with the defaults, an unreadable one is
// replaced by them.
func Init(configFilePath string) error {
	cfgPath = configFilePath
	K = koanf.New(Delimiter)

	if err := K.Load(structs.Provider(defaultConfiguration(configFilePath), "koanf"), nil); err != nil {
		return errors.Wrap(err, "load config defaults")
	}

	switch _, err := os.Stat(configFilePath); {
	case os.IsNotExist(err):
		log.Debugf("Creating default configuration: %q", configFilePath)

		if err := dump(defaultConfiguration(configFilePath), configFilePath); err != nil {
			return errors.Wrap(err, "write default config")
		}
	case err != nil:
		return errors.Wrapf(err, "stat config: %q", configFilePath)
	}

	if err := K.Load(file.Provider(configFilePath), koanfjson.Parser()); err != nil {
		// a broken config must not wedge every command
		log.WithError(err).Warnf("Config is unreadable, replacing with defaults: %q", configFilePath)

		if err := dump(defaultConfiguration(configFilePath), configFilePath); err != nil {
			return errors.Wrap(err, "rewrite config")
		}

		if err := K.Load(file.Provider(configFilePath), koanfjson.Parser()); err != nil {
			return errors.Wrap(err, "reload config")
		}
	}

	if err := K.Load(env.Provider("OSU_", Delimiter, func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "OSU_"))
	}), nil); err != nil {
		return errors.Wrap(err, "load config env")
	}

	cfg := &Configuration{}
	if err := K.Unmarshal("", cfg); err != nil {
		return errors.Wrap(err, "unmarshal config")
	}

	Config = cfg
	return nil
}

// Save writes the current configuration back to the file Init loaded.
func Save() error {
	if Config == nil || cfgPath == "" {
		return errors.New("config was never initialized")
	}

	return dump(Config, cfgPath)
}

// GetDefaultConfigDirectory prefers a config folder beside the binary,
// which keeps portable installs self contained, and falls back to the
// platform config directory.
func GetDefaultConfigDirectory(appName string, configFile string) string {
	if binary, err := os.Executable(); err == nil {
		dir := filepath.Dir(binary)
		if _, err := os.Stat(filepath.Join(dir, configFile)); err == nil {
			return dir
		}
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}

	return "."
}

/* Private */

func defaultConfiguration(configFilePath string) *Configuration {
	return &Configuration{
		SongsPath:       "",
		CachePath:       filepath.Join(filepath.Dir(configFilePath), "cache.db"),
		ChartExtensions: []string{".osu"},
		IgnoreFolders:   []string{},
		Workers:         0,
	}
}

func dump(cfg *Configuration, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.Wrapf(err, "create config directory: %q", filepath.Dir(path))
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, "write config: %q", tmp)
	}

	return errors.Wrapf(os.Rename(tmp, path), "replace config: %q", path)
}
