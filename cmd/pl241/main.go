// Command pl241 reads PL241 source from standard input, builds its
// SSA/CFG intermediate representation, and writes main.dot and
// main.ssa to an output directory (default ./tests, or the directory
// named by the single optional argument).
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"pl241/internal/diag"
	"pl241/internal/emit"
	"pl241/internal/parser"
)

func main() {
	outDir := "./tests"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read standard input:", err)
		os.Exit(1)
	}

	run(source, outDir)
}

func run(source []byte, outDir string) {
	reporter := diag.NewReporter()

	defer func() {
		if r := recover(); r != nil {
			if fatal, ok := r.(diag.FatalError); ok {
				fmt.Println(fatal.Error())
				os.Exit(1)
			}
			panic(r)
		}
	}()

	p := parser.New(source, reporter)
	if !p.Parse() {
		reporter.SyntaxError()
		fmt.Println(emit.DebugDump(p.Builder()))
		return
	}

	b := p.Builder()
	b.RunPostPasses()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "failed to create output directory:", err)
		os.Exit(1)
	}

	dotPath := filepath.Join(outDir, "main.dot")
	ssaPath := filepath.Join(outDir, "main.ssa")

	if err := os.WriteFile(dotPath, []byte(emit.DOT(b)), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "failed to write", dotPath, ":", err)
		os.Exit(1)
	}
	if err := os.WriteFile(ssaPath, []byte(emit.Text(b)), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "failed to write", ssaPath, ":", err)
		os.Exit(1)
	}

	color.Green("Wrote %s and %s", dotPath, ssaPath)
}
