package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/secure-aco/internal/params"
	"github.com/taurusgroup/secure-aco/pkg/math/fixedpoint"
	"github.com/taurusgroup/secure-aco/pkg/party"
	"github.com/taurusgroup/secure-aco/pkg/pool"
	"github.com/taurusgroup/secure-aco/pkg/secret"
	"github.com/taurusgroup/secure-aco/pkg/secret/additive"
	"github.com/taurusgroup/secure-aco/pkg/secret/plain"
	"github.com/taurusgroup/secure-aco/protocols/aco"
)

type runOptions struct {
	instance string
	nodes    int
	size     float64

	iterations int
	colony     int
	rho        float64
	deltaTau   float64
	scale      uint8
	seed       int64

	provider string
	parties  int
	workers  int
	verbose  bool
	out      string
}

func newRunCmd() *cobra.Command {
	defaults := aco.DefaultConfig()
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Solve a generated instance once",
		Long: `Generate an instance, run the colony on it once, and print the best tour.

Instances are "circle" (nodes on a circle, the optimum is the polygon), "grid" (a square
lattice) and "random" (uniform in a square, reproducible from --seed).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.instance, "instance", "random", "instance generator: circle, grid or random")
	f.IntVar(&opts.nodes, "nodes", 10, "number of nodes")
	f.Float64Var(&opts.size, "size", 100, "radius or side length of the instance")
	f.IntVar(&opts.iterations, "iterations", defaults.Iterations, "number of iterations")
	f.IntVar(&opts.colony, "colony", defaults.Colony, "number of ants per iteration")
	f.Float64Var(&opts.rho, "rho", defaults.Rho, "evaporation rate")
	f.Float64Var(&opts.deltaTau, "del-tau", defaults.DeltaTau, "pheromone deposited per traversed edge")
	f.Uint8Var(&opts.scale, "scale", uint8(defaults.Scale), "decimal digits of the fixed-point encoding")
	f.Int64Var(&opts.seed, "seed", defaults.Seed, "seed of the instance, the start positions and the share randomness")
	f.StringVar(&opts.provider, "provider", "additive", "arithmetic provider: additive or plain")
	f.IntVar(&opts.parties, "parties", params.Parties, "share holders of the additive provider")
	f.IntVar(&opts.workers, "workers", 0, "ants run in parallel; 0 uses every CPU, 1 runs them sequentially")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log every iteration")
	f.StringVar(&opts.out, "out", "", "write the CBOR encoded result to this file")
	return cmd
}

func run(cmd *cobra.Command, opts *runOptions) error {
	nodes, err := generate(opts.instance, opts.nodes, opts.size, opts.seed)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = cmd.ErrOrStderr() })
	logger := zerolog.New(console).Level(level).With().Timestamp().Logger()

	config := aco.DefaultConfig()
	config.Iterations = opts.iterations
	config.Colony = opts.colony
	config.Rho = opts.rho
	config.DeltaTau = opts.deltaTau
	config.Scale = fixedpoint.Scale(opts.scale)
	config.Seed = opts.seed
	config.Logger = &logger
	if opts.workers != 1 {
		pl := pool.NewPool(opts.workers)
		defer pl.TearDown()
		config.Pool = pl
	}
	if err = config.Validate(); err != nil {
		return err
	}

	provider, err := newProvider(opts, config.Scale)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt)
	defer stop()
	result, err := aco.Solve(ctx, config, provider, nodes)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:    %x\n", result.RunID)
	fmt.Fprintf(out, "Tour:   %v\n", result.Tour)
	fmt.Fprintf(out, "Length: %.*f\n", int(result.Scale), result.Length)
	fmt.Fprintf(out, "Reveals by the engine: %d\n", result.Reveals)
	if p, ok := provider.(*additive.Provider); ok {
		fmt.Fprintf(out, "Share holders: %s\n", joinIDs(p.Holders()))
		fmt.Fprintf(out, "Openings: %d, comparisons: %d\n", p.Openings(), p.Comparisons())
		fmt.Fprintf(out, "Reveal ledger: %x\n", p.Ledger()[:16])
	}

	if opts.out != "" {
		data, err := result.MarshalBinary()
		if err != nil {
			return err
		}
		if err = os.WriteFile(opts.out, data, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}

func newProvider(opts *runOptions, scale fixedpoint.Scale) (secret.ComparingProvider, error) {
	switch opts.provider {
	case "additive":
		return additive.NewSeeded(party.Numbered(opts.parties), scale, opts.seed)
	case "plain":
		return plain.New(scale)
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.provider)
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func joinIDs(ids party.IDSlice) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}
