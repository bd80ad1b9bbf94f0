// Command amlexplore loads a raw AML byte-code table from disk and lets
// you look at the namespace it builds, either as a one-shot dump or as an
// interactive tree browser.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"firmwarebc/internal/bytestream"
	"firmwarebc/internal/loader"
	"firmwarebc/internal/namespace"
	"firmwarebc/internal/parser"
)

func main() {
	dump := flag.Bool("dump", false, "print the loaded namespace with go-spew instead of opening the browser")
	verbose := flag.Bool("v", false, "log parse/load diagnostics (info, debug, warn) to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: amlexplore [-dump] [-v] <table.aml>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *dump, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "amlexplore:", err)
		os.Exit(1)
	}
}

func run(path string, dump, verbose bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var log *parser.Logger
	if verbose {
		log = parser.NewLogger(os.Stderr)
	}

	p := parser.New(log)
	terms, err := p.ParseTermList(bytestream.New(raw))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	ns := namespace.New()
	ld := loader.New(ns, log, constantFoldEvaluator)
	if err := ld.Load(terms); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	if dump {
		spew.Dump(buildRows(ns.Root()))
		return nil
	}

	prefs, err := loadPreferences()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	m := newModel(ns, prefs)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return errors.New("explorer: " + err.Error())
	}
	return nil
}
