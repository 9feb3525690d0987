// Package builtins implements spec.md §4.H's minimal built-in library
// (print, type, tostring, tonumber, math.*, io.read/write, ipairs/pairs/
// next) plus the security-flavored extension SPEC_FULL.md adds
// (crypto.*, db.*, ws.*) to give every teacher domain dependency a home.
// The math.*, crypto.*, db.query and ws.recv built-ins tag the value they
// derive with a value.ExternalFunction Origin (type, tostring and tonumber
// return untagged values), registering a reverse where one is
// well-defined (spec.md §4.D), and leaving Reverse nil where it isn't —
// that absence is itself exercised by the test suite (spec.md §7's
// "forcing a value may yield no SourceChange — not an error").
package builtins

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sp-uulm/MiniLua-sub001/internal/allocator"
	"github.com/sp-uulm/MiniLua-sub001/internal/environment"
	"github.com/sp-uulm/MiniLua-sub001/internal/errorsx"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// native adapts a Go closure to value.Function, the shape every built-in
// (core and security-extension alike) is registered as.
type native struct {
	name string
	fn   func(args value.Vallist) (value.Vallist, error)
}

func (n *native) Name() string { return n.name }
func (n *native) Call(args value.Vallist) (value.Vallist, error) { return n.fn(args) }

func fn(name string, f func(value.Vallist) (value.Vallist, error)) value.Value {
	return value.FunctionValue(&native{name: name, fn: f})
}

func badArg(index int, name, msg string) error {
	return errorsx.BadArgumentError(index, name, msg)
}

func argNumber(args value.Vallist, i int, name string) (value.Value, error) {
	v := args.Get(i)
	if !v.IsNumber() {
		return value.Nil, badArg(i+1, name, fmt.Sprintf("number expected, got %s", v.TypeName()))
	}
	return v, nil
}

func argString(args value.Vallist, i int, name string) (string, error) {
	v := args.Get(i)
	if v.IsString() {
		return v.AsString(), nil
	}
	if v.IsNumber() {
		return v.AsNumber().String(), nil
	}
	return "", badArg(i+1, name, fmt.Sprintf("string expected, got %s", v.TypeName()))
}

// Register installs the full built-in surface into env's global frame.
// Library members are bound under dotted global names ("math.sin",
// "io.write", "db.open", ...), not as fields of library tables; arena is
// where built-ins that build tables (such as db.query's rows) allocate them.
func Register(env *environment.Environment, arena *allocator.Arena) {
	registerCore(env, arena)
	registerMath(env)
	registerIO(env)
	registerTablesLib(env, arena)
	registerCrypto(env)
	registerDB(env, arena)
	registerWS(env, arena)
}

func registerCore(env *environment.Environment, arena *allocator.Arena) {
	env.Add("print", fn("print", func(args value.Vallist) (value.Vallist, error) {
		w := env.Stdout()
		if w == nil {
			return nil, nil
		}
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(w, strings.Join(parts, "\t"))
		return nil, nil
	}))

	env.Add("type", fn("type", func(args value.Vallist) (value.Vallist, error) {
		return value.NewVallist(value.String(args.First().TypeName())), nil
	}))

	env.Add("tostring", fn("tostring", func(args value.Vallist) (value.Vallist, error) {
		return value.NewVallist(value.String(args.First().String())), nil
	}))

	env.Add("tonumber", fn("tonumber", func(args value.Vallist) (value.Vallist, error) {
		v := args.First()
		if v.IsNumber() {
			return value.NewVallist(v), nil
		}
		if !v.IsString() {
			return value.NewVallist(value.Nil), nil
		}
		s := strings.TrimSpace(v.AsString())
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.NewVallist(value.Int(n)), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return value.NewVallist(value.Float(f)), nil
		}
		return value.NewVallist(value.Nil), nil
	}))
}

// registerIO wires stdin/stdout built-ins directly to the Environment's
// stream handles (spec.md §4.E/§5: blocking I/O lives at the boundary).
func registerIO(env *environment.Environment) {
	io := map[string]value.Value{
		"write": fn("io.write", func(args value.Vallist) (value.Vallist, error) {
			w := env.Stdout()
			if w == nil {
				return nil, nil
			}
			for _, a := range args {
				fmt.Fprint(w, a.String())
			}
			return nil, nil
		}),
		"read": fn("io.read", func(args value.Vallist) (value.Vallist, error) {
			r := env.Stdin()
			if r == nil {
				return value.NewVallist(value.Nil), nil
			}
			line, err := bufio.NewReader(r).ReadString('\n')
			line = strings.TrimRight(line, "\r\n")
			if err != nil && line == "" {
				return value.NewVallist(value.Nil), nil
			}
			return value.NewVallist(value.String(line)), nil
		}),
	}
	for k, v := range io {
		env.Add("io."+k, v)
	}
}

// --- ipairs/pairs/next over table.go's insertion-ordered iteration ---

func registerTablesLib(env *environment.Environment, arena *allocator.Arena) {
	env.Add("next", fn("next", func(args value.Vallist) (value.Vallist, error) {
		v := args.Get(0)
		if !v.IsTable() {
			return nil, badArg(1, "next", fmt.Sprintf("table expected, got %s", v.TypeName()))
		}
		k, val, ok := v.AsTable().Next(args.Get(1))
		if !ok {
			return value.NewVallist(value.Nil), nil
		}
		return value.NewVallist(k, val), nil
	}))

	env.Add("pairs", fn("pairs", func(args value.Vallist) (value.Vallist, error) {
		v := args.Get(0)
		if !v.IsTable() {
			return nil, badArg(1, "pairs", fmt.Sprintf("table expected, got %s", v.TypeName()))
		}
		nextFn := env.Get("next")
		return value.NewVallist(nextFn, v, value.Nil), nil
	}))

	env.Add("ipairs", fn("ipairs", func(args value.Vallist) (value.Vallist, error) {
		v := args.Get(0)
		if !v.IsTable() {
			return nil, badArg(1, "ipairs", fmt.Sprintf("table expected, got %s", v.TypeName()))
		}
		iter := fn("ipairs.iterator", func(ia value.Vallist) (value.Vallist, error) {
			tv := ia.Get(0)
			i := ia.Get(1).AsNumber().I + 1
			elem := tv.AsTable().RawGet(value.Int(i))
			if elem.IsNil() {
				return value.NewVallist(value.Nil), nil
			}
			return value.NewVallist(value.Int(i), elem), nil
		})
		return value.NewVallist(iter, v, value.Int(0)), nil
	}))

	env.Add("setmetatable", fn("setmetatable", func(args value.Vallist) (value.Vallist, error) {
		v := args.Get(0)
		if !v.IsTable() {
			return nil, badArg(1, "setmetatable", fmt.Sprintf("table expected, got %s", v.TypeName()))
		}
		m := args.Get(1)
		if m.IsNil() {
			v.AsTable().SetMetatable(nil)
			return value.NewVallist(v), nil
		}
		if !m.IsTable() {
			return nil, badArg(2, "setmetatable", fmt.Sprintf("nil or table expected, got %s", m.TypeName()))
		}
		v.AsTable().SetMetatable(m.AsTable())
		return value.NewVallist(v), nil
	}))

	env.Add("getmetatable", fn("getmetatable", func(args value.Vallist) (value.Vallist, error) {
		v := args.Get(0)
		if !v.IsTable() {
			return value.NewVallist(value.Nil), nil
		}
		meta := v.AsTable().Metatable()
		if meta == nil {
			return value.NewVallist(value.Nil), nil
		}
		return value.NewVallist(value.TableValue(meta)), nil
	}))
}

// --- math library ---

func registerMath(env *environment.Environment) {
	m := map[string]value.Value{
		"pi":  value.Float(math.Pi).WithOrigin(value.ExternalFunction{Name: "math.pi"}),
		"sin": unary1("math.sin", math.Sin, sinReverse{}),
		"cos": unary1("math.cos", math.Cos, cosReverse{}),
		"tan": unary1("math.tan", math.Tan, tanReverse{}),
		"asin": unary1("math.asin", math.Asin, asinReverse{}),
		"acos": unary1("math.acos", math.Acos, acosReverse{}),
		"atan": unary1("math.atan", math.Atan, atanReverse{}),
		"sqrt": unary1("math.sqrt", math.Sqrt, sqrtReverse{}),
		"floor": unary1("math.floor", math.Floor, nil),
		"ceil":  unary1("math.ceil", math.Ceil, nil),
		"abs":   unary1("math.abs", math.Abs, absReverse{}),
		"atan2": fn("math.atan2", func(args value.Vallist) (value.Vallist, error) {
			a, err := argNumber(args, 0, "atan2")
			if err != nil {
				return nil, err
			}
			b, err := argNumber(args, 1, "atan2")
			if err != nil {
				return nil, err
			}
			r := math.Atan2(a.AsNumber().Float(), b.AsNumber().Float())
			return value.NewVallist(value.Float(r).WithOrigin(value.ExternalFunction{
				Name: "math.atan2", Args: value.NewVallist(a, b),
			})), nil
		}),
	}
	for k, v := range m {
		env.Add("math."+k, v)
	}
}

func unary1(name string, f func(float64) float64, rev value.ReverseExternal) value.Value {
	return fn(name, func(args value.Vallist) (value.Vallist, error) {
		a, err := argNumber(args, 0, name)
		if err != nil {
			return nil, err
		}
		r := f(a.AsNumber().Float())
		return value.NewVallist(value.Float(r).WithOrigin(value.ExternalFunction{
			Name: name, Args: value.NewVallist(a), Reverse: rev,
		})), nil
	})
}

// --- math reverse strategies (spec.md §4.D: "sin -> asin with finiteness
// check; abs -> sign-preserving") ---

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

type sinReverse struct{}

func (sinReverse) Solve(args value.Vallist, target value.Value) (int, value.Value, bool) {
	t := target.AsNumber().Float()
	if t < -1 || t > 1 {
		return 0, value.Nil, false
	}
	return 0, value.Float(math.Asin(t)), true
}

type cosReverse struct{}

func (cosReverse) Solve(args value.Vallist, target value.Value) (int, value.Value, bool) {
	t := target.AsNumber().Float()
	if t < -1 || t > 1 {
		return 0, value.Nil, false
	}
	return 0, value.Float(math.Acos(t)), true
}

type tanReverse struct{}

func (tanReverse) Solve(args value.Vallist, target value.Value) (int, value.Value, bool) {
	return 0, value.Float(math.Atan(target.AsNumber().Float())), true
}

type asinReverse struct{}

func (asinReverse) Solve(args value.Vallist, target value.Value) (int, value.Value, bool) {
	r := math.Sin(target.AsNumber().Float())
	if !finite(r) {
		return 0, value.Nil, false
	}
	return 0, value.Float(r), true
}

type acosReverse struct{}

func (acosReverse) Solve(args value.Vallist, target value.Value) (int, value.Value, bool) {
	r := math.Cos(target.AsNumber().Float())
	if !finite(r) {
		return 0, value.Nil, false
	}
	return 0, value.Float(r), true
}

type atanReverse struct{}

func (atanReverse) Solve(args value.Vallist, target value.Value) (int, value.Value, bool) {
	r := math.Tan(target.AsNumber().Float())
	if !finite(r) {
		return 0, value.Nil, false
	}
	return 0, value.Float(r), true
}

type sqrtReverse struct{}

func (sqrtReverse) Solve(args value.Vallist, target value.Value) (int, value.Value, bool) {
	t := target.AsNumber().Float()
	if t < 0 {
		return 0, value.Nil, false
	}
	return 0, value.Float(t * t), true
}

// absReverse recovers the sign from the original argument (abs itself
// destroys it), per spec.md §4.D's "abs -> sign-preserving".
type absReverse struct{}

func (absReverse) Solve(args value.Vallist, target value.Value) (int, value.Value, bool) {
	t := target.AsNumber().Float()
	if t < 0 {
		return 0, value.Nil, false
	}
	orig := args.Get(0)
	if !orig.IsNumber() {
		return 0, value.Nil, false
	}
	if orig.AsNumber().Float() < 0 {
		t = -t
	}
	return 0, value.Float(t), true
}
