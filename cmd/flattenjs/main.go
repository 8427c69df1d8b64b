// Command flattenjs lowers a single ECMAScript-5-subset source file into
// its flattened, GOTO-threaded form. With no arguments it reads test.js
// and writes test.out.js; an optional flattenjs.toml in the working
// directory overrides both paths.
package main

import (
	"fmt"
	"os"

	"github.com/flattenjs/flattenjs/config"
	"github.com/flattenjs/flattenjs/lexer"
	"github.com/flattenjs/flattenjs/lower"
	"github.com/flattenjs/flattenjs/parser"
	"github.com/flattenjs/flattenjs/printer"
)

func main() {
	cfg := config.Default()

	if _, err := os.Stat("flattenjs.toml"); err == nil {
		loaded, err := config.Load("flattenjs.toml")
		if err != nil {
			fmt.Printf("Error loading flattenjs.toml: %v\n", err)
			os.Exit(1)
		}

		cfg = loaded
	}

	input, output := cfg.Build.Input, cfg.Build.Output

	switch len(os.Args) {
	case 1:
	case 2:
		input = os.Args[1]
	default:
		input, output = os.Args[1], os.Args[2]
	}

	if err := run(input, output); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(input, output string) error {
	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	l := lexer.New(string(source))
	p := parser.New(l)
	prog := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		msg := "parse errors:\n"
		for _, e := range errs {
			msg += "  " + e + "\n"
		}

		return fmt.Errorf("%s", msg)
	}

	lowered, err := lower.LowerProgram(prog)
	if err != nil {
		return fmt.Errorf("lowering %s: %w", input, err)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	defer out.Close()

	if err := printer.Fprint(out, lowered); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Printf("Lowered %s -> %s\n", input, output)

	return nil
}
