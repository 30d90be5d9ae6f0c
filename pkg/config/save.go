package config

import (
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Save writes settings as YAML to path on fsys.
func Save(fsys afero.Fs, path string, s *Settings) error {
	if err := Validate(s); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode settings", "")
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check the directory exists and is writable")
	}
	return nil
}
