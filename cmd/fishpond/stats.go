package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ErikLambrechts/fishpond"
	"github.com/ErikLambrechts/fishpond/hdf5"
)

func newStatsCmd() *cobra.Command {
	var every int
	cmd := &cobra.Command{
		Use:   "stats file.h5",
		Short: "Summarize a recorded simulation",
		Long: `Prints the polarization, mean speed and centroid of the school
recorded in the "fish" dataset of an HDF5 file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if every <= 0 {
				return fmt.Errorf("--every must be positive, got %d", every)
			}
			l, err := hdf5.NewLoader(args[0], "fish")
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer func() {
				if cerr := l.Close(); err == nil {
					err = cerr
				}
			}()
			return printStats(cmd.OutOrStdout(), l.Load, every)
		},
	}
	cmd.Flags().IntVarP(&every, "every", "n", 60, "print one line every n steps")
	return cmd
}

// printStats prints a table of school statistics, one line every n steps
// of the states returned by load until it returns nil.
func printStats(w io.Writer, load func() ([]fishpond.State, error), n int) error {
	fmt.Fprintf(w, "%8s %12s %12s %12s %12s\n", "step", "polarization", "speed", "x", "y")
	for k := 0; ; k++ {
		st, err := load()
		if err != nil {
			return err
		}
		if st == nil {
			return nil
		}
		if k%n != 0 {
			continue
		}
		c := fishpond.Centroid(st)
		fmt.Fprintf(w, "%8d %12.4f %12.4f %12.4f %12.4f\n",
			k, fishpond.Polarization(st), fishpond.MeanSpeed(st), c.X, c.Y)
	}
}
