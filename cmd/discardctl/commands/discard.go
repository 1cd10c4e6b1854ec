package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voidfs/blockdiscard/pkg/discard"
	"github.com/voidfs/blockdiscard/pkg/metrics"
)

var (
	discardOffset uint64
	discardLength uint64
)

var discardCmd = &cobra.Command{
	Use:   "discard <path>",
	Short: "Free the physical storage backing a byte range",
	Long: `Deallocate the physical storage behind [--offset, --offset+--length) of the
given file or block device. The logical size of the target is unchanged; a
subsequent read of the range observes zeros.

The range state is unspecified if the operation fails partway through: it
may be partially deallocated or zeroed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		defer f.Close()

		svc := discard.New(discard.Config{
			MaxWorkers: cfg.Discard.MaxWorkers,
			Metrics:    metrics.NewDiscardMetrics(),
		})

		if err := svc.Discard(cmd.Context(), f, discardOffset, discardLength); err != nil {
			var opErr *discard.OpError
			if errors.As(err, &opErr) {
				if discard.IsNotSupported(opErr) {
					return fmt.Errorf("%s has no usable deallocation primitive (%s): %w", path, opErr.Op, opErr.Err)
				}
				return fmt.Errorf("discard of %s failed during %s: %w", path, opErr.Op, opErr.Err)
			}
			return err
		}

		fmt.Printf("Discarded %d bytes at offset %d in %s\n", discardLength, discardOffset, path)
		return nil
	},
}

func init() {
	discardCmd.Flags().Uint64Var(&discardOffset, "offset", 0, "byte offset of the range")
	discardCmd.Flags().Uint64Var(&discardLength, "length", 0, "byte length of the range")
	_ = discardCmd.MarkFlagRequired("length")
}
