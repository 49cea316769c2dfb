package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphorbit/pkg/config"
	"github.com/matzehuels/glyphorbit/pkg/font"
	"github.com/matzehuels/glyphorbit/pkg/pipeline"
)

// glyphsCommand lists the decoded glyphs in arrangement order.
func (c *CLI) glyphsCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "glyphs [font]",
		Short: "List the decoded glyphs in arrangement order",
		Long: `Glyphs decodes a font and prints one row per glyph in the order the shapes place
them: the object index, the character, its glyph ID, the number of outline
contours, the advance width and the parametric coordinate i/count.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args)
			return c.runGlyphs(cmd.Context(), cfg, opts, flags.noCache)
		},
	}

	flags.addFontFlags(cmd)
	return cmd
}

func (c *CLI) runGlyphs(ctx context.Context, cfg config.Config, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	spinner := newSpinner(ctx, fmt.Sprintf("Decoding %s...", opts.Font))
	spinner.Start()
	set, cached, err := loadGlyphs(ctx, runner, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printKeyValue("Family", set.Family)
	printKeyValue("Units/em", fmt.Sprint(set.UnitsPerEm))
	printStats(set.Len(), 1, cached)
	printNewline()
	fmt.Fprintln(out, glyphTable(set))
	return nil
}

// loadGlyphs loads and decodes opts.Font and reports whether the glyph set
// came from the cache.
func loadGlyphs(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*font.GlyphSet, bool, error) {
	f, err := runner.LoadFont(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	return runner.DecodeWithCacheInfo(ctx, f, opts)
}

// glyphTable renders set as a bordered table.
func glyphTable(set *font.GlyphSet) string {
	n := set.Len()
	rows := make([][]string, 0, n)
	for i, g := range set.Glyphs {
		rows = append(rows, []string{
			fmt.Sprint(i),
			string(g.Rune),
			fmt.Sprintf("%U", g.Rune),
			fmt.Sprint(g.Index),
			fmt.Sprint(g.Outline.Contours()),
			fmt.Sprintf("%.1f", g.Outline.Advance),
			fmt.Sprintf("%.4f", float64(i)/float64(n)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Glyph", "Code", "ID", "Contours", "Advance", "i/count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return cellStyle.Foreground(colorCyan).Bold(true)
			case col == 0 || col == 6:
				return cellStyle.Foreground(colorWhite)
			default:
				return cellStyle.Foreground(colorDim)
			}
		})
	return strings.TrimRight(t.Render(), "\n")
}
