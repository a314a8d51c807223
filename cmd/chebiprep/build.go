package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/c360studio/chebiprep/config"
	"github.com/c360studio/chebiprep/dataset"
	"github.com/c360studio/chebiprep/export"
	"github.com/c360studio/chebiprep/ontology"
	"github.com/c360studio/chebiprep/split"
)

func buildCmd(configPath *string) *cobra.Command {
	var (
		termsPath    string
		moleculeGlob string
		minMolecules int
		outDir       string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build labeled train/validation/test datasets",
		Long: `Build loads parsed ontology terms and molecule records, propagates
class membership through the is_a hierarchy, selects the label
vocabulary by minimum support, and writes stratified train/val/test
tables plus a build manifest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(slog.Default()).Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if minMolecules > 0 {
				cfg.Dataset.MinMolecules = minMolecules
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}
			return runBuild(cfg, termsPath, moleculeGlob)
		},
	}

	cmd.Flags().StringVar(&termsPath, "terms", "", "Parsed ontology terms file (JSON array)")
	cmd.Flags().StringVar(&moleculeGlob, "molecules", "", "Molecule record files (doublestar glob over JSON arrays)")
	cmd.Flags().IntVar(&minMolecules, "min-molecules", 0, "Override the label minimum-support threshold")
	cmd.Flags().StringVar(&outDir, "out", "", "Override the output directory")
	_ = cmd.MarkFlagRequired("terms")
	_ = cmd.MarkFlagRequired("molecules")

	return cmd
}

func runBuild(cfg *config.Config, termsPath, moleculeGlob string) error {
	terms, err := loadTerms(termsPath)
	if err != nil {
		return err
	}
	molecules, err := loadMolecules(moleculeGlob)
	if err != nil {
		return err
	}
	slog.Info("Loaded inputs",
		"terms", len(terms),
		"molecules", len(molecules))

	graph := ontology.BuildGraph(terms)
	hierarchy := graph.HierarchySubgraph()
	closure, err := ontology.BuildClosure(hierarchy)
	if err != nil {
		return fmt.Errorf("build ancestor index: %w", err)
	}
	slog.Info("Built ontology graph",
		"classes", graph.Len(),
		"hierarchy_classes", hierarchy.Len())

	builder := dataset.NewBuilder(closure,
		dataset.WithMinMolecules(cfg.Dataset.MinMolecules),
		dataset.WithWorkers(cfg.Dataset.Workers),
		dataset.WithLogger(slog.Default()))
	res := builder.Build(molecules)
	slog.Info("Built labeled dataset",
		"build_id", res.BuildID,
		"molecules", res.Stats.Molecules,
		"excluded", res.Stats.Excluded,
		"labels", res.Stats.Classes)

	splits, err := split.SplitMultilabel(res.Table, cfg.Split.Ratios(), cfg.Split.Seed)
	if err != nil {
		return fmt.Errorf("split dataset: %w", err)
	}

	return writeOutputs(cfg, res, splits)
}

func loadTerms(path string) ([]ontology.Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read terms file: %w", err)
	}
	var terms []ontology.Term
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("parse terms file %s: %w", path, err)
	}
	return terms, nil
}

func loadMolecules(pattern string) ([]dataset.Molecule, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad molecule glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no molecule files match %q", pattern)
	}

	var molecules []dataset.Molecule
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read molecule file: %w", err)
		}
		var batch []dataset.Molecule
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("parse molecule file %s: %w", path, err)
		}
		molecules = append(molecules, batch...)
	}
	return molecules, nil
}

func writeOutputs(cfg *config.Config, res *dataset.Result, splits *split.Result) error {
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	info, _ := export.GetFormatInfo(format)

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tables := []struct {
		name  string
		table *dataset.Table
	}{
		{"train", splits.Train},
		{"val", splits.Val},
		{"test", splits.Test},
	}
	for _, t := range tables {
		path := filepath.Join(cfg.Output.Dir, t.name+info.Extension)
		if err := writeTableFile(path, t.table, format); err != nil {
			return err
		}
		slog.Info("Wrote split", "split", t.name, "rows", t.table.Len(), "path", path)
	}

	manifest := export.Manifest{
		BuildID:      res.BuildID,
		CreatedAt:    time.Now().UTC(),
		MinMolecules: cfg.Dataset.MinMolecules,
		Molecules:    res.Stats.Molecules,
		Labels:       res.Labels,
		Seed:         cfg.Split.Seed,
		Splits: export.SplitCounts{
			Train: splits.Train.Len(),
			Val:   splits.Val.Len(),
			Test:  splits.Test.Len(),
		},
	}
	manifestPath := filepath.Join(cfg.Output.Dir, "manifest.json")
	f, err := os.Create(manifestPath)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer f.Close()
	if err := export.WriteManifest(f, manifest); err != nil {
		return err
	}
	slog.Info("Wrote manifest", "path", manifestPath)
	return nil
}

func writeTableFile(path string, table *dataset.Table, format export.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := export.WriteTable(f, table, format); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
