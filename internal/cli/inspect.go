package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bandfill/pkg/fill"
	"github.com/matzehuels/bandfill/pkg/template"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <template>",
		Short: "Validate a template and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := template.Load(args[0])
			if err != nil {
				return err
			}
			r, err := template.Compile(s, nil)
			if err != nil {
				return err
			}
			printTemplate(cmd.OutOrStdout(), s, r)
			return nil
		},
	}
}

func printTemplate(w io.Writer, s *template.Spec, r *fill.Report) {
	g := r.Geometry
	printTitle(w, s.Name)
	printKeyValue(w, "page", fmt.Sprintf("%dx%d", g.PageWidth, g.PageHeight))
	printKeyValue(w, "margins", fmt.Sprintf("top %d, bottom %d, left %d, right %d", g.TopMargin, g.BottomMargin, g.LeftMargin, g.RightMargin))
	printKeyValue(w, "columns", fmt.Sprintf("%d x %d (spacing %d, %s)", g.ColumnCount, g.ColumnWidth, g.ColumnSpacing, g.Direction))
	printKeyValue(w, "no data", r.WhenNoData.String())

	if len(r.Groups) > 0 {
		printInfo(w, "Groups")
		for _, gs := range s.Groups {
			var flags []string
			if gs.StartNewPage {
				flags = append(flags, "new page")
			}
			if gs.StartNewColumn {
				flags = append(flags, "new column")
			}
			if gs.KeepTogether {
				flags = append(flags, "keep together")
			}
			if gs.ReprintHeaderOnEachPage {
				flags = append(flags, "reprint header")
			}
			line := fmt.Sprintf("%s by %s", gs.Name, gs.Field)
			if len(flags) > 0 {
				line += " (" + strings.Join(flags, ", ") + ")"
			}
			printDetail(w, "%s", line)
		}
	}

	if len(s.Variables) > 0 {
		printInfo(w, "Variables")
		for _, v := range s.Variables {
			calc := v.Calculation
			if calc == "" {
				calc = "count"
			}
			printDetail(w, "%s = %s(%s)", v.Name, calc, v.Field)
		}
	}

	printInfo(w, "Bands")
	for _, b := range template.Bands(r) {
		printDetail(w, "%-20s height %d", b.Name(), b.Height())
	}
}
