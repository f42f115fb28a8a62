package main

import (
	"fmt"
	"strings"

	"kernel-convolver/internal/kernel"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the kernel catalog in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := kernel.Standard()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, d := range catalog.Entries() {
				var flags []string
				if d.Grayscale() {
					flags = append(flags, "grayscale")
				}
				if d.HasBlur() {
					flags = append(flags, "blur="+d.BlurReference())
				}
				if d.HasSecondary() {
					flags = append(flags, "gradient")
				}
				fmt.Fprintf(out, "%2d  %-40s %dx%d  sum=%-6g factor=%-8.4g %s\n",
					i+1, d.Name(), d.Size(), d.Size(), d.WeightSum(), d.Factor(), strings.Join(flags, ","))
			}
			return nil
		},
	}
}
