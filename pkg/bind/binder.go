package bind

import (
	"fmt"

	"github.com/rileyhilliard/pipecli/internal/util"
	"github.com/rileyhilliard/pipecli/pkg/command"
	"github.com/rileyhilliard/pipecli/pkg/errors"
	"github.com/rileyhilliard/pipecli/pkg/parse"
)

// DefaultSource supplies raw values for arguments that received none on the
// command line, e.g. from a config file or the environment.
type DefaultSource interface {
	Lookup(arg command.Argument) ([]string, bool)
}

// Binder turns a parse result into typed values.
type Binder struct {
	registry *Registry
	sources  []DefaultSource
}

// New creates a binder. Sources are consulted in order for arguments
// without explicit values, before the argument's declared default.
func New(registry *Registry, sources ...DefaultSource) *Binder {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Binder{registry: registry, sources: sources}
}

// Bound holds the typed values of every command on the resolved path.
type Bound struct {
	target *command.Command
	values map[*command.Command]*command.Values
}

// ValuesFor returns the values visible to cmd: its own arguments plus the
// inherited options of its ancestors. Commands off the path get an empty set.
func (b *Bound) ValuesFor(cmd *command.Command) *command.Values {
	if v, ok := b.values[cmd]; ok {
		return v
	}
	return command.NewValues()
}

// Target returns the values visible to the resolved target.
func (b *Bound) Target() *command.Values {
	return b.ValuesFor(b.target)
}

// Bind converts the raw values of every argument on the path from the root
// to the target. It stops at the first missing or invalid value.
func (b *Binder) Bind(res *parse.Result) (*Bound, error) {
	bound := &Bound{
		target: res.Target,
		values: make(map[*command.Command]*command.Values),
	}

	own := make(map[command.Argument]boundValue)
	for _, cmd := range res.Path() {
		for _, arg := range cmd.Arguments() {
			v, err := b.bindArgument(res, arg)
			if err != nil {
				return nil, err
			}
			if v.present {
				own[arg] = v
			}
		}
	}

	for _, cmd := range res.Path() {
		values := command.NewValues()
		for _, arg := range cmd.Arguments() {
			if v, ok := own[arg]; ok {
				values.Set(arg.Name(), v.value, v.explicit)
			}
		}
		for _, opt := range cmd.VisibleOptions() {
			if opt.Command() == cmd || values.Has(opt.Name()) {
				continue
			}
			if v, ok := own[opt]; ok {
				values.Set(opt.Name(), v.value, v.explicit)
			}
		}
		bound.values[cmd] = values
	}
	return bound, nil
}

type boundValue struct {
	value    any
	explicit bool
	present  bool
}

func (b *Binder) bindArgument(res *parse.Result, arg command.Argument) (boundValue, error) {
	raws := res.Values(arg)
	explicit := len(raws) > 0

	if !explicit {
		for _, src := range b.sources {
			if vals, ok := src.Lookup(arg); ok && len(vals) > 0 {
				raws = vals
				break
			}
		}
	}

	if len(raws) == 0 {
		if def, ok := arg.Default(); ok {
			return boundValue{value: def, present: true}, nil
		}
		if arg.Arity().Min > 0 {
			return boundValue{}, errors.NewMissingArgument(arg.Command().FullName(), label(arg))
		}
		return boundValue{}, nil
	}

	if n := len(raws); n < arg.Arity().Min {
		err := errors.NewMissingArgument(arg.Command().FullName(), label(arg))
		err.Message = fmt.Sprintf("'%s' expects at least %d %s, got %d",
			label(arg), arg.Arity().Min, util.Pluralize(arg.Arity().Min, "value", "values"), n)
		return boundValue{}, err
	}

	converted := make([]any, 0, len(raws))
	for _, raw := range raws {
		v, err := b.convert(arg, raw)
		if err != nil {
			return boundValue{}, err
		}
		converted = append(converted, v)
	}

	if !arg.Arity().AllowsMany() {
		return boundValue{value: converted[len(converted)-1], explicit: explicit, present: true}, nil
	}
	return boundValue{value: converted, explicit: explicit, present: true}, nil
}

func (b *Binder) convert(arg command.Argument, raw string) (any, error) {
	if !arg.IsAllowed(raw) {
		err := errors.NewConversion(label(arg), raw, string(arg.Type()),
			fmt.Errorf("value is not one of the allowed values"))
		err.Suggestion = "Allowed values: " + util.JoinOrNone(arg.AllowedValues())
		return nil, err
	}

	fn, ok := b.registry.Lookup(arg.Type())
	if !ok {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No converter registered for type '%s' of '%s'", arg.Type(), label(arg)),
			"Register one with bind.Registry.Register")
	}
	v, err := fn(raw)
	if err != nil {
		return nil, errors.NewConversion(label(arg), raw, string(arg.Type()), err)
	}
	return v, nil
}

func label(arg command.Argument) string {
	if o, ok := arg.(*command.Option); ok {
		return o.Long()
	}
	return arg.Name()
}
