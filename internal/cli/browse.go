package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/1mgroot/Tracil-sub000/pkg/pipeline"
	"github.com/1mgroot/Tracil-sub000/pkg/standards"
)

// browseCommand creates the browse command for interactive variable selection.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		backend    string
		strict     bool
		noCache    bool
		output     string
		formatsStr string
		save       bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "browse [standards.json]",
		Short: "Pick a variable interactively and trace its lineage",
		Long: `Pick a variable interactively and trace its lineage.

The browse command walks a study's standards metadata in three steps:
pick a standard (Protocol, CRF, SDTM, ADaM, TLF), pick a dataset, pick a
variable. Selecting a variable runs the same pipeline as 'analyze'.

The standards file is the define-style metadata tree exported by the
inference backend.

Examples:
  tracil browse standards.json
  tracil browse standards.json -f svg --strategy dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Backend = backend
			opts.Formats = parseFormats(formatsStr)
			return c.runBrowse(cmd.Context(), args[0], opts, output, strict, noCache, save)
		},
	}

	// Backend flags
	cmd.Flags().StringVarP(&backend, "backend", "b", defaultBackendURL, "lineage inference service URL")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail instead of degrading when the backend is unavailable")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the graph cache and re-run inference")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Output flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "layout strategy: rows (default), dot")
	cmd.Flags().BoolVar(&save, "save", false, "also write a snapshot document (graph + layout + id)")

	return cmd
}

// runBrowse walks standard, dataset, and variable selection, then analyzes.
func (c *CLI) runBrowse(ctx context.Context, path string, opts pipeline.Options, output string, strict, noCache, save bool) error {
	collection, err := standards.ReadCollectionFile(path)
	if err != nil {
		return err
	}
	if len(collection.Standards) == 0 {
		printError("No standards found in %s", path)
		return fmt.Errorf("no standards found in %s", path)
	}

	printInfo("Loaded %d standards with %d variables", len(collection.Standards), collection.VariableCount())
	printNewline()

	sm := NewStandardListModel(collection)
	sp := tea.NewProgram(sm)
	sFinal, err := sp.Run()
	if err != nil {
		return err
	}
	sfm, ok := sFinal.(StandardListModel)
	if !ok || sfm.Selected == "" {
		printDetail("No selection made")
		return nil
	}

	standard, _ := collection.Standard(sfm.Selected)
	dm := NewDatasetListModel(sfm.Selected, standard.Datasets())
	dp := tea.NewProgram(dm)
	dFinal, err := dp.Run()
	if err != nil {
		return err
	}
	dfm, ok := dFinal.(DatasetListModel)
	if !ok || dfm.Selected == nil {
		printDetail("No selection made")
		return nil
	}

	vm := NewVariableListModel(*dfm.Selected)
	vp := tea.NewProgram(vm)
	vFinal, err := vp.Run()
	if err != nil {
		return err
	}
	vfm, ok := vFinal.(VariableListModel)
	if !ok || vfm.Selected == nil {
		printDetail("No selection made")
		return nil
	}

	opts.Dataset = vfm.Selected.Dataset
	opts.Variable = vfm.Selected.Variable.Name

	printInfo("Selected: %s", StyleHighlight.Render(sfm.Selected+"."+opts.Dataset+"."+opts.Variable))
	if label := vfm.Selected.Variable.Label; label != "" {
		printDetail("%s", label)
	}
	printNewline()

	return c.runAnalyze(ctx, opts, output, strict, noCache, save)
}
