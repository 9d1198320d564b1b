package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "secure-aco",
	Short: "Ant colony optimization over secret-shared values",
	Long: `secure-aco solves a symmetric traveling salesman instance with an ant colony whose
distances, pheromones and selection weights are secret-shared fixed-point values.

Only the length of the best tour of each iteration is revealed.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
