package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rileyhilliard/pipecli/internal/ui"
	"github.com/rileyhilliard/pipecli/pkg/errors"
)

// Validate checks settings for values the pipeline cannot run with.
func Validate(s *Settings) error {
	if s.Version > CurrentVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config version %d is newer than this build supports (%d)", s.Version, CurrentVersion),
			"Upgrade pipecli or lower the version field")
	}

	if _, err := ui.ParseColorMode(s.Color); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid color setting '%s'", s.Color),
			"Use one of: auto, always, never")
	}

	for _, id := range s.HelpOptions {
		if err := validateIdentifier("help_options", id); err != nil {
			return err
		}
	}
	if s.VersionOption != "" {
		if err := validateIdentifier("version_option", s.VersionOption); err != nil {
			return err
		}
		if slices.Contains(s.HelpOptions, s.VersionOption) {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' is both a help and the version option", s.VersionOption),
				"Pick distinct identifiers for help and version")
		}
	}
	return nil
}

func validateIdentifier(field, id string) error {
	if !strings.HasPrefix(id, "-") || strings.Trim(id, "-") == "" || strings.ContainsAny(id, " =:") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid %s entry '%s'", field, id),
			"Option identifiers look like -h or --help")
	}
	return nil
}
