// Command parsegen reads a grammar-description file and emits a
// predictive recursive-descent parser for it, as a pair of C++ source
// files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parsegen",
	Short: "Generate a predictive recursive-descent parser from an LL(1) grammar",
	Long: `parsegen reads a grammar-description file (terminals, nonterminals,
and EBNF productions), computes First and Follow sets, checks the
grammar is LL(1), and emits a recursive-descent parser implementation
as <output-stem>.hpp/<output-stem>.cpp.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
