// Package data implements the `optsim data` utilities.
package data

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xyproto/unzip"

	cliconfig "github.com/darshanshenoy/optsim/internal/cli/config"
)

func New(rc *cliconfig.RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage input data bundles",
	}

	cmd.AddCommand(newUnpackCmd())

	return cmd
}

// newUnpackCmd extracts a zipped data bundle (contract CSV plus bar
// dumps) into a working directory.
func newUnpackCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "unpack <bundle.zip>",
		Short: "Extract a zipped data bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			if err := unzip.Extract(args[0], out); err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}
			cmd.Printf("extracted %s -> %s\n", args[0], out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "./data", "output directory")
	return cmd
}
