// Program lovelac compiles Lovela source into a C-family target
// program plus two companion header blocks.
//
// Usage: lovelac [--imports FILE] [--exports FILE] [--dialect c|cpp] [SOURCE ...]
//
// With no SOURCE arguments, the program is read from standard input.
// With one or more SOURCE arguments, each is read and compiled in
// turn, and their emitted programs are written to standard output in
// argument order.
//
// Grounded on the teacher's yang.go driver: pborman/getopt flag
// parsing and a stop/exitIfError exit-code indirection that keeps
// main testable.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pborman/getopt"

	"lovelac/internal/diag"
	"lovelac/internal/emitter"
	"lovelac/internal/parser"
	"lovelac/internal/stdlib"
)

// stop is a var so tests can intercept the exit path, as in the
// teacher's yang.go.
var stop = os.Exit

func main() {
	var importsPath, exportsPath, dialect string
	getopt.StringVarLong(&importsPath, "imports", 0, "write the accumulated #include block to FILE", "FILE")
	getopt.StringVarLong(&exportsPath, "exports", 0, "write the accumulated exported-signature block to FILE", "FILE")
	getopt.StringVarLong(&dialect, "dialect", 0, "standard-library dialect backing unqualified Standard imports: c or cpp", "DIALECT")
	getopt.SetParameters("[SOURCE ...]")

	if err := getopt.Getopt(func(getopt.Option) bool { return true }); err != nil {
		fmt.Fprintln(os.Stderr, err)
		getopt.PrintUsage(os.Stderr)
		stop(1)
		return
	}

	d := stdlib.C
	switch dialect {
	case "", "c":
		d = stdlib.C
	case "cpp":
		d = stdlib.Cpp
	default:
		fmt.Fprintf(os.Stderr, "lovelac: unknown --dialect %q, want c or cpp\n", dialect)
		stop(1)
		return
	}

	sources, err := readSources(getopt.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop(1)
		return
	}

	em := emitter.New(d)
	for _, src := range sources {
		compileOne(em, src, os.Stdout, os.Stderr)
	}

	if importsPath != "" {
		if err := os.WriteFile(importsPath, []byte(em.ImportsHeader()), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			stop(1)
			return
		}
	}
	if exportsPath != "" {
		if err := os.WriteFile(exportsPath, []byte(em.ExportsHeader()), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			stop(1)
			return
		}
	}
}

// readSources reads stdin when args is empty, or each named file in
// order otherwise.
func readSources(args []string) ([]string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("lovelac: reading stdin: %w", err)
		}
		return []string{string(data)}, nil
	}
	sources := make([]string, 0, len(args))
	for _, name := range args {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("lovelac: reading %s: %w", name, err)
		}
		sources = append(sources, string(data))
	}
	return sources, nil
}

// compileOne drives one source through parser and emitter, writing
// the emitted program to out and pretty-printed diagnostics to errs.
// Per spec.md §6, a completed run always exits 0; diagnostics never
// abort the pipeline.
func compileOne(em *emitter.Emitter, src string, out, errs io.Writer) {
	p := parser.New(src)
	for {
		node, ok := p.Next()
		if !ok {
			break
		}
		em.Emit(out, node)
	}
	for _, d := range p.Diagnostics() {
		printDiagnostic(errs, d)
	}
	for _, d := range em.Diagnostics() {
		printDiagnostic(errs, d)
	}
}

func printDiagnostic(w io.Writer, d diag.Diagnostic) {
	fmt.Fprintln(w, d.String())
}
