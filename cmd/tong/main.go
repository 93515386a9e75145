package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	tong "github.com/amilto-com/Tong"
)

const (
	appName     = "tong"
	historyFile = ".tong_history"
	promptMain  = "tong> "
	promptCont  = "...   "
)

const replHelp = `Commands:
  help          Show this help
  vars          List session variables
  reset         Clear the session
  exit, quit    Leave the REPL
Anything else is evaluated as tong source. Unbalanced braces
continue on the next line.`

func main() {
	app := &cli.App{
		Name:    appName,
		Usage:   "the tong scripting language",
		Version: tong.VersionString(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "trace statement execution on stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a script file",
				ArgsUsage: "<file.tong>",
				Action: func(c *cli.Context) error {
					if c.Args().Len() < 1 {
						return cli.Exit(fmt.Sprintf("usage: %s run <file.tong>", appName), 2)
					}
					return runFile(c.Args().First(), c.Bool("debug"))
				},
			},
			{
				Name:  "repl",
				Usage: "start an interactive session",
				Action: func(c *cli.Context) error {
					return repl(c.Bool("debug"))
				},
			},
			{
				Name:  "version",
				Usage: "print version, commit, and build timestamp",
				Action: func(c *cli.Context) error {
					fmt.Println(tong.BuildReport())
					return nil
				},
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return runFile(c.Args().First(), c.Bool("debug"))
			}
			return repl(c.Bool("debug"))
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%v", err))
		os.Exit(1)
	}
}

func runFile(path string, debug bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("%s: cannot read %s: %v", appName, path, err), 1)
	}
	ip := tong.NewRuntime()
	if debug {
		ip.Debug = true
	}
	if err := ip.RunSource(string(src)); err != nil {
		return cli.Exit(color.RedString("%v", tong.WrapErrorWithName(err, filepath.Base(path), string(src))), 1)
	}
	return nil
}

func repl(debug bool) error {
	fmt.Printf("%s\nCtrl+C cancels input, Ctrl+D exits. Type help for commands.\n", tong.VersionString())

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	sess := tong.NewSession()
	if debug {
		sess.Runtime().Debug = true
	}

	for {
		code, ok := readSnippet(ln)
		if !ok {
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		switch trimmed {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Println(replHelp)
			continue
		case "vars":
			for _, b := range sess.ListVars() {
				fmt.Printf("%s = %s\n", b.Name, b.Value)
			}
			continue
		case "reset":
			sess.Reset()
			fmt.Println("session cleared")
			continue
		}

		val, have, err := sess.EvalSnippet(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("%v", tong.WrapErrorWithSource(err, code)))
			continue
		}
		if have {
			fmt.Printf("=> %s\n", color.CyanString("%s", val))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readSnippet collects lines until the snippet parses, is a complete
// parse failure, or the brace balance closes. Returns false on EOF.
func readSnippet(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(promptMain)
		} else {
			line, err = ln.Prompt(promptCont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if braceBalance(src) > 0 {
			continue
		}
		if _, perr := tong.ParseSourceInteractive(src); tong.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// braceBalance counts unbalanced '{', ignoring braces inside string
// literals and line comments.
func braceBalance(src string) int {
	depth := 0
	inStr := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inStr {
			if c == '"' || c == '\n' {
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			}
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}
