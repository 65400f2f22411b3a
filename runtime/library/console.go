package library

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tinta-lang/tinta/core/cerr"
	"github.com/tinta-lang/tinta/core/value"
)

// Console implements runtime/interpreter.Console and runtime/vm.Console
// (the always-available `csl::name(args)` dispatch, spec.md §4.5's
// Console.Output rule) and also materializes as the `:console`
// importable module, grounded on original_source/src/libraries/print.rs's
// "pintar"/"limpiar" pair. ANSI coloring is suppressed when NO_COLOR is
// set (whether stdout is a terminal is not checked), matching spec.md §1's non-goal of
// "identical escape-code coloring" while still honoring the on/off
// contract.
type Console struct {
	Out   io.Writer
	Color bool
}

// NewConsole builds a Console writing to out, with color enabled only
// when NO_COLOR is unset (https://no-color.org's convention, the only
// one spec.md §1 commits to).
func NewConsole(out io.Writer) *Console {
	_, noColor := os.LookupEnv("NO_COLOR")
	return &Console{Out: out, Color: !noColor}
}

// Call dispatches a `csl::name(args)` console expression.
func (c *Console) Call(name string, args []value.Value) (value.Value, *cerr.Throw) {
	switch name {
	case "pintar":
		return c.pintar(args)
	case "limpiar":
		return c.limpiar()
	case "error":
		return c.errorln(args)
	}
	return nil, cerr.NewTypeError("csl::%s no existe", name)
}

func (c *Console) pintar(args []value.Value) (value.Value, *cerr.Throw) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.ToAgalConsole()
	}
	fmt.Fprintln(c.Out, strings.Join(parts, " "))
	return value.NewNever(), nil
}

func (c *Console) errorln(args []value.Value) (value.Value, *cerr.Throw) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.ToAgalConsole()
	}
	msg := strings.Join(parts, " ")
	if c.Color {
		msg = "\x1b[31m" + msg + "\x1b[0m"
	}
	fmt.Fprintln(c.Out, msg)
	return value.NewNever(), nil
}

func (c *Console) limpiar() (value.Value, *cerr.Throw) {
	fmt.Fprint(c.Out, "\x1b[2J\x1b[0;0H")
	return value.NewNever(), nil
}

// Module returns the `:console` library object, for code that imports
// it explicitly (`importa ":console" como csl`) rather than relying on
// the always-available `csl::` shorthand.
func (c *Console) Module() value.Value {
	obj := value.NewObject()
	obj.SetObjectProperty("pintar", value.NewFunction("csl::pintar", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		return c.pintar(args)
	}))
	obj.SetObjectProperty("limpiar", value.NewFunction("csl::limpiar", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		return c.limpiar()
	}))
	obj.SetObjectProperty("error", value.NewFunction("csl::error", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		return c.errorln(args)
	}))
	return obj
}
