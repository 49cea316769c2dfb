package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
)

// shapesCommand lists the arrangements in menu order.
func (c *CLI) shapesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List the available shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, name := range arrange.ShapeNames {
				shape, err := arrange.ParseShape(name, arrange.DefaultKnotP, arrange.DefaultKnotQ)
				if err != nil {
					return err
				}
				kind := "static"
				if shape.Animated() {
					kind = "animated"
				}
				fmt.Fprintf(out, "%s %s %s\n",
					StyleNumber.Render(fmt.Sprintf("%d", i+1)),
					StyleValue.Render(fmt.Sprintf("%-18s", name)),
					StyleDim.Render(kind))
			}
			return nil
		},
	}
}
