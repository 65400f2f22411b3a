// Command tinta is the CLI entry point for the tinta interpreter, per
// spec.md §6: "single positional argument — the script file path. Exit
// 0 on success, 1 on any surfaced error." Grounded directly on the
// teacher's cli/main.go (a cobra root command, buffered/lockdown-style
// stdout handling generalized here to NO_COLOR suppression since tinta
// has no secrets to scrub, explicit os.Exit(0/1) rather than letting
// main fall off the end).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tinta-lang/tinta/core/ast"
	"github.com/tinta-lang/tinta/core/bytecode"
	"github.com/tinta-lang/tinta/core/token"
	"github.com/tinta-lang/tinta/runtime/cache"
	"github.com/tinta-lang/tinta/runtime/compiler"
	"github.com/tinta-lang/tinta/runtime/interpreter"
	"github.com/tinta-lang/tinta/runtime/lexer"
	"github.com/tinta-lang/tinta/runtime/library"
	"github.com/tinta-lang/tinta/runtime/parser"
	"github.com/tinta-lang/tinta/runtime/vm"
)

var (
	flagDebug    bool
	flagNoColor  bool
	flagBytecode bool
	flagNoCache  bool
	flagCacheDir string
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run builds and executes the cobra root, returning the process exit
// code rather than calling os.Exit directly so it stays testable.
func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return exitCode
}

// exitCode is set by a RunE body on a surfaced (non-usage) error, so
// run() can distinguish "cobra printed usage" from "the script threw".
// Both return a non-zero process exit; this only matters for tests
// that want to tell the two apart.
var exitCode int

func newRootCmd() *cobra.Command {
	exitCode = 0
	root := &cobra.Command{
		Use:           "tinta [file]",
		Short:         "Run tinta scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runScript(args[0])
		},
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug-level trace logging")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable ANSI console coloring")
	root.PersistentFlags().BoolVar(&flagBytecode, "bytecode", false, "execute via the bytecode VM instead of the tree interpreter")
	root.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the on-disk bytecode cache")
	root.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "override the bytecode cache directory")

	root.AddCommand(newTokensCmd(), newASTCmd())
	return root
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "tokens <file>",
		Short:         "Print the token stream for a script (debug)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				exitCode = 1
				return err
			}
			logger := newLogger()
			l := lexer.New(string(src), logger)
			for {
				tok := l.Next()
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-6s %q\n", tok.Type, tok.Pos, tok.Literal)
				if tok.Type == token.EOF {
					break
				}
			}
			return nil
		},
	}
}

func newASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "ast <file>",
		Short:         "Print the parsed syntax tree for a script (debug)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				exitCode = 1
				return err
			}
			prog, errs := parser.Parse(string(src))
			if len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(os.Stderr, e.Error())
				}
				exitCode = 1
				return errs[0]
			}
			fmt.Fprintln(cmd.OutOrStdout(), prog.String())
			return nil
		},
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagDebug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runScript lexes, parses and either tree-interprets or compiles+runs
// file, per spec.md §2's dual execution paths. It is the sole path
// cobra's root RunE dispatches to for `tinta <file>`.
func runScript(file string) error {
	logger := newLogger()

	abs, err := filepath.Abs(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
		return err
	}

	cfg, err := loadConfig(filepath.Join(filepath.Dir(abs), "tinta.yaml"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
		return err
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
		return err
	}

	if flagNoColor || (cfg.NoColor != nil && *cfg.NoColor) {
		os.Setenv("NO_COLOR", "1")
	}

	registry := library.NewRegistry()
	registry.Roots = cfg.Roots

	prog, parseErrs := parser.Parse(string(src))
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		exitCode = 1
		return parseErrs[0]
	}

	var runErr error
	if flagBytecode {
		runErr = runBytecode(abs, src, prog, registry, cfg, logger)
	} else {
		it := interpreter.New(abs, registry, registry.Console)
		if _, throw := it.Run(prog); throw != nil {
			fmt.Fprintln(os.Stderr, throw.Render())
			runErr = throw
		}
	}
	if runErr != nil {
		exitCode = 1
		return runErr
	}
	return nil
}

// runBytecode compiles prog (reusing a disk cache keyed on src unless
// --no-cache was given) and executes it on the stack VM.
func runBytecode(abs string, src []byte, prog *ast.Program, registry *library.Registry, cfg *projectConfig, logger *slog.Logger) error {
	var bc *cache.Cache
	if !flagNoCache {
		dir := flagCacheDir
		if dir == "" {
			dir = cfg.CacheDir
		}
		if dir == "" {
			if d, err := cache.DefaultDir(); err == nil {
				dir = d
			}
		}
		if dir != "" {
			if c, err := cache.New(dir); err == nil {
				bc = c
			} else {
				logger.Debug("bytecode cache unavailable", "error", err)
			}
		}
	}

	var group *bytecode.ChunkGroup
	if bc != nil {
		if g, ok := bc.Load(src); ok {
			group = g
			logger.Debug("bytecode cache hit", "file", abs)
		}
	}
	if group == nil {
		g, err := compiler.New().Compile(prog)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		group = g
		if bc != nil {
			if err := bc.Store(src, group); err != nil {
				logger.Debug("bytecode cache store failed", "error", err)
			}
		}
	}

	machine := vm.New(abs, registry, registry.Console)
	if _, throw := machine.Run(group); throw != nil {
		fmt.Fprintln(os.Stderr, throw.Render())
		return throw
	}
	return nil
}
