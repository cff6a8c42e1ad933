package debugs

import (
	"context"

	"github.com/reusee/cubes/logs"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Eval evaluates a starlark expression over globals and returns its
// printed form.
type Eval func(ctx context.Context, expr string, globals map[string]any) (string, error)

func (Module) Eval(
	logger logs.Logger,
) Eval {
	return func(ctx context.Context, expr string, globals map[string]any) (string, error) {
		mappings := make(starlark.StringDict, len(globals))
		for name, value := range globals {
			mappings[name] = toStarlarkValue(value)
		}
		thread := &starlark.Thread{
			Name: "eval",
		}
		value, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, "<eval>", expr, mappings)
		if err != nil {
			return "", logs.WrapSpan(ctx, err)
		}
		logger.DebugContext(ctx, "eval", "expr", expr, "result", value.String())
		return value.String(), nil
	}
}
