package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deosjr/skm/lisp"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/peterh/liner"
)

func main() {
	tr := gologadapter.New()
	tr.SetOutput(os.Stderr)
	fatal := func(err error) {
		tr.Errorf("skm: %v", err)
		os.Exit(1)
	}
	configPath := flag.String("config", "", "YAML config file")
	root := flag.String("root", ".", "directory load resolves file names in")
	trace := flag.Bool("trace", false, "log procedure and frame reclamation")
	loadMode := flag.String("load-mode", "", "how load reads files: expression or lines")
	prompt := flag.String("prompt", "skm> ", "REPL prompt")
	flag.Parse()

	cfg := lisp.DefaultConfig()
	if *configPath != "" {
		c, err := lisp.LoadConfig(*configPath)
		if err != nil {
			fatal(err)
		}
		cfg = c
	}
	if *trace {
		cfg.Trace = true
	}
	if *loadMode != "" {
		cfg.LoadMode = lisp.LoadMode(*loadMode)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	l := lisp.New(
		lisp.WithConfig(cfg),
		lisp.WithFilesystem(osfs.New(*root)),
		lisp.WithTracer(tr),
	)
	if flag.NArg() > 0 {
		for _, filename := range flag.Args() {
			if err := l.LoadFile(filename); err != nil {
				l.Close()
				fatal(err)
			}
		}
		l.Close()
		return
	}
	startREPL(l, tr, *prompt)
	l.Close()
}

func startREPL(l *lisp.Lisp, tr tracing.Trace, prompt string) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	for {
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return
		}
		if err != nil {
			tr.Errorf("skm: %v", err)
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if input == ":env" {
			l.Dump(os.Stdout)
			continue
		}
		out, err := l.Step(input)
		if err != nil {
			// a bad line never ends the session
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(out)
	}
}
