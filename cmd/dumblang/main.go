package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/peterh/liner"

	"dumblang/interpreter-go/pkg/codegen"
	"dumblang/interpreter-go/pkg/diag"
	"dumblang/interpreter-go/pkg/interpreter"
	"dumblang/interpreter-go/pkg/parser"
	"dumblang/interpreter-go/pkg/runtime"
)

const (
	appName     = "dumblang"
	version     = "0.2.0"
	historyFile = ".dumblang_history"
	promptMain  = "==> "
	promptCont  = "... "
)

type runCmd struct {
	File   string  `arg:"" help:"Program file to run." type:"existingfile"`
	EnvArg float64 `name:"env-arg" default:"0" help:"Numeric argument bound to the env variable."`
}

func (c *runCmd) Run() error {
	src, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	if _, err := interpreter.ParseAndExecute(string(src), c.EnvArg); err != nil {
		fmt.Fprintln(os.Stderr, diag.Snippet(err, string(src)))
		return fmt.Errorf("%s failed", filepath.Base(c.File))
	}
	return nil
}

type emitCmd struct {
	File   string `arg:"" help:"Program file to translate." type:"existingfile"`
	Output string `short:"o" help:"Write the generated Go source to a file instead of stdout."`
}

func (c *emitCmd) Run() error {
	src, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	prog, err := parser.ParseProgram(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, diag.Snippet(err, string(src)))
		return fmt.Errorf("%s failed", filepath.Base(c.File))
	}
	out, err := codegen.Emit(prog)
	if err != nil {
		return err
	}
	if c.Output == "" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(c.Output, []byte(out), 0o644)
}

type replCmd struct {
	EnvArg float64 `name:"env-arg" default:"0" help:"Numeric argument bound to the env variable."`
}

// Run reads whole programs interactively. Input accumulates until the braces
// balance, so a function body can span several lines; each complete program
// is executed from scratch with a fresh interpreter.
func (c *replCmd) Run() error {
	fmt.Printf("%s %s\nCtrl+C cancels input, Ctrl+D exits.\n", appName, version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readProgram(ln)
		if !ok {
			fmt.Println()
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		val, err := interpreter.ParseAndExecute(src, c.EnvArg)
		if err != nil {
			fmt.Fprintln(os.Stderr, diag.Snippet(err, src))
			continue
		}
		fmt.Println(runtime.Format(val))
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// readProgram accumulates lines until every opened brace is closed. The
// second result is false on EOF.
func readProgram(ln *liner.State) (string, bool) {
	var b strings.Builder
	depth := 0
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		depth += braceDelta(line)
		if depth <= 0 {
			return b.String(), true
		}
	}
}

// braceDelta counts net brace nesting on a line, skipping string literals
// and comments.
func braceDelta(line string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '#':
			return depth
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}

var cli struct {
	Run     runCmd           `cmd:"" default:"withargs" help:"Run a program file."`
	Emit    emitCmd          `cmd:"" help:"Translate a program file to standalone Go source."`
	Repl    replCmd          `cmd:"" help:"Start an interactive session."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

func main() {
	ktx := kong.Parse(&cli,
		kong.Name(appName),
		kong.Description("Interpreter and Go translator for a small teaching language."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	ktx.FatalIfErrorf(ktx.Run())
}
