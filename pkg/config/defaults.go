package config

import (
	"strings"
	"sync"

	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/token"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Defaults serves argument values from the defaults section of the
// settings and from the environment. It implements bind.DefaultSource.
//
// A value for option --times of "app greet" is looked up as
// PIPECLI_GREET_TIMES in the environment, then as defaults.app.greet.times
// in the settings. Root arguments drop the command segment:
// PIPECLI_LEVEL.
type Defaults struct {
	mu sync.Mutex
	v  *viper.Viper
}

// NewDefaults builds a source over s.Defaults. A nil s serves the
// environment only.
func NewDefaults(s *Settings) *Defaults {
	v := viper.New()
	if s != nil && len(s.Defaults) > 0 {
		_ = v.MergeConfigMap(map[string]any{"defaults": s.Defaults})
	}
	return &Defaults{v: v}
}

// Lookup implements bind.DefaultSource.
func (d *Defaults) Lookup(arg command.Argument) ([]string, bool) {
	key := Key(arg)

	d.mu.Lock()
	_ = d.v.BindEnv(key, EnvName(arg))
	value := d.v.Get(key)
	d.mu.Unlock()

	if value == nil {
		return nil, false
	}
	return toStrings(arg, value)
}

// Key is the settings key of arg, e.g. "defaults.app.greet.times".
func Key(arg command.Argument) string {
	parts := []string{"defaults"}
	for _, c := range arg.Command().Path() {
		parts = append(parts, c.Name())
	}
	parts = append(parts, arg.Name())
	return strings.ToLower(strings.Join(parts, "."))
}

// EnvName is the environment variable that supplies a default for arg.
func EnvName(arg command.Argument) string {
	parts := []string{EnvPrefix}
	for _, c := range arg.Command().Path()[1:] {
		parts = append(parts, c.Name())
	}
	parts = append(parts, arg.Name())
	name := strings.Join(parts, "_")
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func toStrings(arg command.Argument, value any) ([]string, bool) {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, cast.ToString(item))
		}
		return out, true
	case []string:
		return append([]string(nil), v...), true
	case string:
		if arg.Arity().AllowsMany() {
			values, err := token.Split(v)
			if err != nil {
				return nil, false
			}
			return values, len(values) > 0
		}
		return []string{v}, true
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, false
		}
		return []string{s}, true
	}
}
