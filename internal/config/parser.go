package config

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/degoss/internal/platform"
)

// Parser evaluates Lua argument files.
type Parser struct {
	detector platform.Detector
	logger   *slog.Logger
}

// NewParser creates a parser. A nil detector leaves the platform table out.
func NewParser(detector platform.Detector, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{detector: detector, logger: logger}
}

// ParseError represents an argument file parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// ParseLua runs luaCode in a sandbox and returns the contents of its global
// degoss table as plain Go values.
func (p *Parser) ParseLua(ctx context.Context, luaCode string) (map[string]any, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, &ParseError{Message: "Lua evaluation timed out", Detail: ctx.Err().Error()}
		}
		return nil, &ParseError{Message: "Lua error", Detail: trimTraceback(err.Error())}
	}

	global := L.GetGlobal(luaGlobalDegoss)
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid '" + luaGlobalDegoss + "' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	value, err := luaToGo(table, 0)
	if err != nil {
		return nil, &ParseError{Message: "unsupported value in '" + luaGlobalDegoss + "' table", Detail: err.Error()}
	}

	params, ok := value.(map[string]any)
	if !ok {
		return nil, &ParseError{
			Message: "invalid '" + luaGlobalDegoss + "' table",
			Detail:  "expected key = value pairs, got a list",
		}
	}

	p.logger.Debug("evaluated Lua arguments", "keys", len(params))

	return params, nil
}

// luaToGo converts a Lua value into strings, bools, numbers, []any and
// map[string]any. Integral numbers become int64.
func luaToGo(v lua.LValue, depth int) (any, error) {
	if depth > maxLuaDepth {
		return nil, fmt.Errorf("tables nested deeper than %d levels", maxLuaDepth)
	}

	switch x := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(x), nil
	case lua.LString:
		return string(x), nil
	case lua.LNumber:
		f := float64(x)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return f, nil
	case *lua.LTable:
		return tableToGo(x, depth)
	default:
		return nil, fmt.Errorf("cannot use Lua %s as an argument value", v.Type())
	}
}

// tableToGo returns a []any when every key is a positive integer and a
// map[string]any otherwise. Holes left by nil entries (for example from
// platform.when) are dropped from lists. An empty table is an empty map.
func tableToGo(t *lua.LTable, depth int) (any, error) {
	var indexes []int
	isList := true
	t.ForEach(func(key, _ lua.LValue) {
		n, ok := key.(lua.LNumber)
		if !ok || float64(n) < 1 || float64(n) != math.Trunc(float64(n)) {
			isList = false
			return
		}
		indexes = append(indexes, int(n))
	})

	if isList && len(indexes) > 0 {
		sort.Ints(indexes)
		list := make([]any, 0, len(indexes))
		for _, i := range indexes {
			item, err := luaToGo(t.RawGetInt(i), depth+1)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		return list, nil
	}

	out := map[string]any{}
	var convErr error
	t.ForEach(func(key, value lua.LValue) {
		if convErr != nil {
			return
		}
		item, err := luaToGo(value, depth+1)
		if err != nil {
			convErr = err
			return
		}
		out[key.String()] = item
	})
	if convErr != nil {
		return nil, convErr
	}

	return out, nil
}

// trimTraceback drops the stack traceback from a Lua error message.
func trimTraceback(detail string) string {
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return detail
}
