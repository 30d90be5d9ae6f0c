// Package config loads the framework settings that hosts can tune from a
// .pipecli.yaml file or the environment, and serves argument defaults from
// the same sources.
package config

// CurrentVersion is the schema version for the settings file.
const CurrentVersion = 1

// Settings are the framework behaviours a host or its users can switch.
// Exit codes are fixed and not configurable.
type Settings struct {
	Version int `yaml:"version" mapstructure:"version"`

	// IgnoreUnrecognized keeps unrecognized tokens on the parse result
	// instead of failing the execution.
	IgnoreUnrecognized bool `yaml:"ignore_unrecognized" mapstructure:"ignore_unrecognized"`

	// AllowPrefixMatch lets a unique prefix of a long option name select it.
	AllowPrefixMatch bool `yaml:"allow_prefix_match" mapstructure:"allow_prefix_match"`

	// Directives enables leading [name] arguments such as [debug] and [parse].
	Directives bool `yaml:"directives" mapstructure:"directives"`

	// ResponseFiles expands @path arguments into the file's tokens.
	ResponseFiles bool `yaml:"response_files" mapstructure:"response_files"`

	// PipedInput appends redirected stdin lines to the target's unbounded operand.
	PipedInput bool `yaml:"piped_input" mapstructure:"piped_input"`

	// PromptMissing asks for missing required arguments on a terminal.
	PromptMissing bool `yaml:"prompt_missing" mapstructure:"prompt_missing"`

	// TypoSuggestions adds "did you mean" hints to unrecognized commands and options.
	TypoSuggestions bool `yaml:"typo_suggestions" mapstructure:"typo_suggestions"`

	HelpOptions   []string `yaml:"help_options" mapstructure:"help_options"`
	VersionOption string   `yaml:"version_option" mapstructure:"version_option"`

	// Color is auto, always or never.
	Color string `yaml:"color" mapstructure:"color"`

	// Defaults holds argument values keyed by command path, e.g.
	// defaults.app.greet.times. Served through Defaults.
	Defaults map[string]any `yaml:"defaults,omitempty" mapstructure:"defaults"`
}

// DefaultSettings returns the settings used when no file is found.
func DefaultSettings() *Settings {
	return &Settings{
		Version:         CurrentVersion,
		Directives:      true,
		ResponseFiles:   true,
		PipedInput:      true,
		TypoSuggestions: true,
		HelpOptions:     []string{"-h", "--help", "-?"},
		VersionOption:   "--version",
		Color:           "auto",
	}
}
