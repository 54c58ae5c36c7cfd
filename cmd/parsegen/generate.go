package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shadowCow/parsegen/conflict"
	"github.com/shadowCow/parsegen/ebnfparser"
	"github.com/shadowCow/parsegen/emit"
	"github.com/shadowCow/parsegen/grammar"
	"github.com/shadowCow/parsegen/internal/applog"
)

var generateFlags = struct {
	dumpGrammar *bool
	trace       *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "generate <input-grammar-path> <output-stem>",
		Short:   "Generate a recursive-descent parser from a grammar description",
		Example: `  parsegen generate arithmetic.gram arithmetic`,
		Args:    cobra.ExactArgs(2),
		RunE:    runGenerate,
	}
	generateFlags.dumpGrammar = cmd.Flags().Bool("dump-grammar", false, "print the parsed grammar and its First/Follow sets to stderr before emitting")
	generateFlags.trace = cmd.Flags().Bool("trace", false, "forward trace-level diagnostics to stderr, not only to output.log")
	rootCmd.AddCommand(cmd)
}

// runGenerate wires the whole pipeline: EBNF Text Parser -> Grammar
// Store -> Set Engine -> Conflict Checker -> Parser Emitter. This
// function's error, once surfaced by Execute, drives os.Exit(1);
// argument-count violations are caught by cobra's cobra.ExactArgs(2)
// before RunE even runs; cobra returns that as an error from Execute
// too, so main exits 1 for it as well.
func runGenerate(cmd *cobra.Command, args []string) error {
	inputPath, outStem := args[0], args[1]

	stderrLevel := applog.LevelInfo
	if *generateFlags.trace {
		stderrLevel = applog.LevelTrace
	}
	log, err := applog.New("output.log", stderrLevel)
	if err != nil {
		return fmt.Errorf("could not open output.log: %w", err)
	}

	src, err := os.ReadFile(inputPath)
	if err != nil {
		log.Errorf("could not read grammar file %s: %v", inputPath, err)
		return err
	}

	g, err := ebnfparser.Parse(string(src), log)
	if err != nil {
		log.Errorf("grammar load failed: %v", err)
		return err
	}

	if err := g.Finalize(); err != nil {
		log.Errorf("grammar finalization failed: %v", err)
		return err
	}

	if *generateFlags.dumpGrammar {
		grammar.Dump(g, os.Stderr)
	}

	conflicts, err := conflict.Check(g)
	if err != nil {
		log.Errorf("conflict check failed: %v", err)
		return err
	}
	if len(conflicts) > 0 {
		for _, c := range conflicts {
			log.Errorf("%s", c)
		}
		return fmt.Errorf("grammar is not LL(1): %d conflict(s) found", len(conflicts))
	}

	className := classNameFromStem(outStem)
	if err := emit.Generate(g, className, outStem, log); err != nil {
		log.Errorf("parser emission failed: %v", err)
		return err
	}

	log.Infof("wrote %s.hpp and %s.cpp", outStem, outStem)
	return nil
}

// classNameFromStem derives the generated parser's C++ class name from
// the output stem's base name.
func classNameFromStem(stem string) string {
	base := filepath.Base(stem)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base
}
