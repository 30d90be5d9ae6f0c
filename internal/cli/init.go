package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rileyhilliard/pipecli/internal/ui"
	"github.com/rileyhilliard/pipecli/pkg/config"
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// initCmd writes a settings file with every default spelled out
func newInitCmd(e *env) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a " + config.FileName + " in the current directory",
		Long: `Write the default settings to ` + config.FileName + ` in the current directory
so they can be edited. Fails if the file exists unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(e.dir, config.FileName)
			if ok, _ := afero.Exists(e.fs, path); ok && !force {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Settings file already exists: %s", path),
					"Use --force to overwrite")
			}
			if err := config.Save(e.fs, path, config.DefaultSettings()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", ui.SymbolSuccess, path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
