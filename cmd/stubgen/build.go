package main

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"stubgen/internal/canon"
	"stubgen/internal/graph"
	"stubgen/internal/logger"
	"stubgen/internal/parser"
	"stubgen/internal/pipeline"
)

var (
	buildDir       string
	buildOutput    string
	buildNamespace string
)

var buildCmd = &cobra.Command{
	Use:   "build <packages...>",
	Short: "Build an API stub document from annotated Go packages",
	Long: `Build loads the given package patterns and submits their annotated services
to the exporter. While services reference types from packages not loaded yet,
each round loads those packages and resubmits; the last round drops what
still cannot be resolved.

The document is written to <output>/<namespace>/<uuid>-api-stub.json.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildDir, "dir", "C", ".", "Directory patterns are resolved in")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory (default: options.outputDir)")
	buildCmd.Flags().StringVarP(&buildNamespace, "namespace", "n", "", "Document namespace (default: options.namespace)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildOutput != "" {
		cfg.Options.OutputDir = buildOutput
	}
	if buildNamespace != "" {
		cfg.Options.Namespace = buildNamespace
	}
	log := logger.Named("build")

	broad := cfg.BroadPolicy()
	universe := parser.NewUniverse(broad)
	loader := parser.NewLoader(parser.New(cfg.Options.Directive), buildDir)
	sink := pipeline.DirSink{Dir: cfg.Options.OutputDir, Namespace: cfg.Options.Namespace}
	pl := pipeline.New(universe, sink,
		pipeline.WithPolicies(graph.Policies{Broad: broad, Narrow: cfg.NarrowPolicy()}),
		pipeline.WithLogger(logger.Named("pipeline")),
	)

	h := &roundHost{loader: loader, universe: universe, attempted: make(map[string]bool)}
	outcome, err := h.run(cmd.Context(), pl, args)
	if err != nil {
		return err
	}
	if !outcome.Emitted {
		return errors.New("no document emitted")
	}
	for _, d := range outcome.Dropped {
		log.Warnw("service excluded from document", logger.FieldService, d.Name())
	}
	fmt.Fprintln(cmd.OutOrStdout(), outcome.Location)
	return nil
}

// roundHost drives the pipeline round by round, growing the symbol table with the
// packages deferred services are waiting for.
type roundHost struct {
	loader    *parser.Loader
	universe  *parser.Universe
	attempted map[string]bool
}

func (h *roundHost) run(ctx context.Context, pl *pipeline.Pipeline, patterns []string) (pipeline.Outcome, error) {
	log := logger.Named("build")

	pkgs, err := h.loader.Load(ctx, patterns...)
	if err != nil {
		return pipeline.Outcome{}, err
	}
	round := pipeline.Round{}
	for _, pkg := range pkgs {
		h.attempted[pkg.Path] = true
		h.universe.Add(pkg)
		round.Candidates = append(round.Candidates, pkg.Candidates()...)
	}

	for {
		outcome, err := pl.Process(ctx, round)
		if err != nil {
			return outcome, err
		}
		if outcome.State != pipeline.StateDeferredRound {
			return outcome, nil
		}

		next := h.missingPackages(outcome)
		if len(next) == 0 {
			round = pipeline.Round{Final: true}
			continue
		}
		log.Debugw("loading dependencies", logger.FieldCount, len(next))
		for _, path := range next {
			h.attempted[path] = true
			loaded, err := h.loader.Load(ctx, path)
			if err != nil {
				log.Warnw("dependency not loadable", logger.FieldFile, path, logger.FieldError, err)
				continue
			}
			for _, pkg := range loaded {
				h.universe.Add(pkg)
			}
		}
		// Deferred services are carried by the pipeline.
		round = pipeline.Round{}
	}
}

// missingPackages returns the import paths of unresolved names that have
// not been loaded yet.
func (h *roundHost) missingPackages(outcome pipeline.Outcome) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range pipeline.Missing(h.universe, outcome.Deferred) {
		path := canon.Package(name)
		if path == "" || h.attempted[path] || seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}
