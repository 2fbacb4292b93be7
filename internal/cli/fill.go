package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bandfill/pkg/pipeline"
	"github.com/matzehuels/bandfill/pkg/render"
)

// fillOpts holds the command-line flags for the fill command.
type fillOpts struct {
	data     string  // records file (.json or .csv)
	formats  string  // comma-separated output formats
	output   string  // output base path, or "-" for stdout
	fontSize float64 // text size of svg and pdf output
	outlines bool    // draw element outlines
	noCache  bool    // disable the document and artifact cache
	refresh  bool    // ignore cached entries but store fresh ones
}

// fillCommand creates the fill command.
func (c *CLI) fillCommand() *cobra.Command {
	opts := fillOpts{fontSize: pipeline.DefaultFontSize}

	cmd := &cobra.Command{
		Use:   "fill <template>",
		Short: "Fill a report template and write the pages",
		Long: `Fill a report template (.toml or .yaml) with records and write the filled
pages as JSON, SVG or PDF. Without --data the report is filled with no
records, which prints according to its when_no_data policy.

Output files are named <base>.<format>, where the base defaults to the
template path without its extension.`,
		Example: `  bandfill fill orders.toml --data orders.json -f pdf
  bandfill fill orders.yaml --data orders.csv -f json,svg -o out/orders
  bandfill fill orders.toml --data orders.json -f svg -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFill(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "records file (.json or .csv)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", render.FormatJSON, "output format(s): json, svg, pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output base path, or "-" to write a single format to stdout`)
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", opts.fontSize, "text size of svg and pdf output, in points")
	cmd.Flags().BoolVar(&opts.outlines, "outlines", false, "draw element outlines")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refill even when a cached document exists")

	return cmd
}

func (c *CLI) runFill(cmd *cobra.Command, input string, opts fillOpts) error {
	formats, err := render.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	if opts.output == "-" && len(formats) != 1 {
		return fmt.Errorf("writing to stdout needs exactly one format, got %d", len(formats))
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Filling "+filepath.Base(input))
	spin.Start()
	res, err := runner.Execute(cmd.Context(), pipeline.Options{
		TemplatePath: input,
		DataPath:     opts.data,
		Formats:      formats,
		FontSize:     opts.fontSize,
		Outlines:     opts.outlines,
		Refresh:      opts.refresh,
	})
	spin.Stop()
	if err != nil {
		if spin.Cancelled() {
			printWarning(cmd.ErrOrStderr(), "Fill of %s cancelled", input)
		}
		return err
	}
	prog.done(fmt.Sprintf("Filled %s", res.Document.Name))

	out := cmd.OutOrStdout()
	if opts.output == "-" {
		_, err := out.Write(res.Artifacts[formats[0]])
		return err
	}

	base := basePath(opts.output, input)
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	printSuccess(out, "Filled %s", res.Document.Name)
	printStats(out, res.Stats.Records, res.Stats.Pages, res.CacheInfo.DocumentHit)
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, res.Artifacts[f], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(out, path)
	}
	if res.Stats.Pages == 0 {
		printWarning(out, "The report produced no pages")
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
