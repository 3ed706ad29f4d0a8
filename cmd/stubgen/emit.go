package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"stubgen/internal/generator"
	"stubgen/internal/logger"
	"stubgen/internal/pipeline"
)

var (
	emitOutput   string
	emitTemplate string
	emitTypes    string
	emitExclude  string
	emitNoIndex  bool
)

var emitCmd = &cobra.Command{
	Use:   "emit [document]",
	Short: "Render an API stub document as TypeScript",
	Long: `Emit renders one TypeScript file per selected definition, one client
interface per service and an index.ts barrel. Without a document argument the
most recent document under <outputDir>/<namespace> is used.

Examples:
    stubgen emit -o web/src/api
    stubgen emit build/stubgen/6f1c...-api-stub.json -T "User, Order"
    stubgen emit -X InternalConfig -t client.tmpl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEmit,
}

func init() {
	emitCmd.Flags().StringVarP(&emitOutput, "output", "o", "", "Output directory (default: <outputDir>/ts)")
	emitCmd.Flags().StringVarP(&emitTemplate, "template", "t", "", "Service template file")
	emitCmd.Flags().StringVarP(&emitTypes, "types", "T", "", "Only emit these types (comma-separated)")
	emitCmd.Flags().StringVarP(&emitExclude, "exclude", "X", "", "Exclude these types (comma-separated)")
	emitCmd.Flags().BoolVar(&emitNoIndex, "no-index", false, "Do not write index.ts")
}

func runEmit(cmd *cobra.Command, args []string) error {
	log := logger.Named("emit")

	// Apply CLI overrides
	if emitTypes != "" {
		cfg.Options.IncludeTypes = parseCommaSeparated(emitTypes)
	}
	if emitExclude != "" {
		cfg.Options.ExcludeTypes = parseCommaSeparated(emitExclude)
	}
	if emitTemplate != "" {
		cfg.Options.ServiceTemplate = emitTemplate
	}
	if emitNoIndex {
		cfg.Options.EmitIndex = false
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		latest, err := pipeline.Latest(cfg.Options.OutputDir, cfg.Options.Namespace)
		if err != nil {
			return err
		}
		path = latest
	}
	doc, err := pipeline.ReadDocument(path)
	if err != nil {
		return err
	}
	log.Debugw("document loaded",
		logger.FieldFile, path,
		logger.FieldCount, len(doc.Definitions),
	)

	gen := generator.New(cfg, doc)
	if cfg.Options.ServiceTemplate != "" {
		if err := gen.LoadTemplate(cfg.Options.ServiceTemplate); err != nil {
			return err
		}
	}
	files, err := gen.Generate(doc)
	if err != nil {
		return err
	}

	out := emitOutput
	if out == "" {
		out = filepath.Join(cfg.Options.OutputDir, "ts")
	}
	written, err := generator.WriteFiles(out, files)
	if err != nil {
		return err
	}
	for _, p := range written {
		log.Infow("generated", logger.FieldFile, p)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s\n", len(written), out)
	return nil
}
