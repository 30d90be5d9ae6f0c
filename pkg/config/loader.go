package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// FileName is the default settings file name.
	FileName = ".pipecli.yaml"
	// GlobalDir is the directory for global settings, relative to home.
	GlobalDir = ".config/pipecli"
	// GlobalFile is the global settings file name.
	GlobalFile = "config.yaml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PIPECLI"
)

// Load reads settings from the specified path. Environment variables such
// as PIPECLI_IGNORE_UNRECOGNIZED override the file.
func Load(path string) (*Settings, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is Load on the given filesystem.
func LoadFs(fsys afero.Fs, path string) (*Settings, error) {
	v := newViper(fsys)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Create "+FileName+" or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseSettings(v, path)
}

// LoadOrDefault loads the settings file Find locates, or the defaults with
// environment overrides applied when there is none.
func LoadOrDefault(explicit string) (*Settings, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}
	home, _ := os.UserHomeDir()
	return LoadOrDefaultFs(afero.NewOsFs(), cwd, home, explicit)
}

// LoadOrDefaultFs is LoadOrDefault on the given filesystem, searching from
// dir.
func LoadOrDefaultFs(fsys afero.Fs, dir, home, explicit string) (*Settings, error) {
	path, err := FindFs(fsys, dir, home, explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return parseSettings(newViper(fsys), "environment")
	}
	return LoadFs(fsys, path)
}

// Find locates the settings file using the search order:
// 1. Explicit path (from --config flag)
// 2. .pipecli.yaml in the current directory
// 3. .pipecli.yaml in parent directories (stops at git root or home)
// 4. ~/.config/pipecli/config.yaml
//
// Returns the path, or an empty string if nothing was found.
func Find(explicit string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}
	home, _ := os.UserHomeDir()
	return FindFs(afero.NewOsFs(), cwd, home, explicit)
}

// FindFs is Find on the given filesystem, starting at dir.
func FindFs(fsys afero.Fs, dir, home, explicit string) (string, error) {
	if explicit != "" {
		if _, err := fsys.Stat(explicit); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if exists(fsys, candidate) {
			return candidate, nil
		}
		if exists(fsys, filepath.Join(dir, ".git")) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && parent == home) {
			break
		}
		dir = parent
	}

	if home != "" {
		global := filepath.Join(home, GlobalDir, GlobalFile)
		if exists(fsys, global) {
			return global, nil
		}
	}
	return "", nil
}

func exists(fsys afero.Fs, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

// newViper returns a viper instance with every settings key defaulted so
// that environment overrides apply even when the file omits the key.
func newViper(fsys afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fsys)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultSettings()
	v.SetDefault("version", def.Version)
	v.SetDefault("ignore_unrecognized", def.IgnoreUnrecognized)
	v.SetDefault("allow_prefix_match", def.AllowPrefixMatch)
	v.SetDefault("directives", def.Directives)
	v.SetDefault("response_files", def.ResponseFiles)
	v.SetDefault("piped_input", def.PipedInput)
	v.SetDefault("prompt_missing", def.PromptMissing)
	v.SetDefault("typo_suggestions", def.TypoSuggestions)
	v.SetDefault("help_options", def.HelpOptions)
	v.SetDefault("version_option", def.VersionOption)
	v.SetDefault("color", def.Color)
	return v
}

func parseSettings(v *viper.Viper, source string) (*Settings, error) {
	s := DefaultSettings()
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}
