package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/voidfs/blockdiscard/pkg/bufpool"
	"github.com/voidfs/blockdiscard/pkg/discard"
)

var probeKeep bool

// probeCmd exercises the raw hole-punch primitive standalone. The sequence
// reproduces a known platform misbehavior: on some macOS filesystems,
// punching a block, then writing that block and its neighbor, makes the
// punch of the neighbor fail with EINVAL even though its arguments are
// perfectly aligned. The probe only surfaces the failure; nothing in this
// project retries or reorders punches to hide it.
var probeCmd = &cobra.Command{
	Use:   "probe [dir]",
	Short: "Probe the raw hole-punch primitive for platform quirks",
	Long: `Create a scratch file and drive the native hole-punch primitive through a
fixed sequence (punch block 0, write blocks 0 and 1, punch block 1),
printing each step. On a well-behaved platform every step succeeds; a
failure on the final punch indicates the primitive has adjacency
constraints beyond its documented alignment requirement.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := os.TempDir()
		if len(args) == 1 {
			dir = args[0]
		}

		path := filepath.Join(dir, "discardctl-probe.raw")
		f, err := os.OpenFile(path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("failed to create scratch file: %w", err)
		}
		defer f.Close()
		if !probeKeep {
			defer os.Remove(path)
		}

		blockSize, err := discard.BlockSize(f)
		if err != nil {
			return fmt.Errorf("failed to discover filesystem block size: %w", err)
		}
		fmt.Printf("Underlying filesystem uses a %d byte block size.\n\n", blockSize)

		size := int64(10 * blockSize)
		fmt.Printf("truncate(%d)\n", size)
		if err := f.Truncate(size); err != nil {
			return fmt.Errorf("failed to truncate scratch file: %w", err)
		}

		zeros := bufpool.GetZeroed(int(blockSize))
		defer bufpool.Put(zeros)

		fmt.Printf("punch(offset = 0, length = %d)\n", blockSize)
		if err := discard.PunchHole(f, 0, blockSize); err != nil {
			if discard.IsNotSupported(err) {
				return fmt.Errorf("hole punching not supported here: %w", err)
			}
			return fmt.Errorf("failed to punch block 0: %w", err)
		}

		fmt.Printf("pwrite(offset = 0, nbytes = %d)\n", blockSize)
		if _, err := f.WriteAt(zeros, 0); err != nil {
			return fmt.Errorf("failed to write block 0: %w", err)
		}

		fmt.Printf("pwrite(offset = %d, nbytes = %d)\n", blockSize, blockSize)
		if _, err := f.WriteAt(zeros, int64(blockSize)); err != nil {
			return fmt.Errorf("failed to write block 1: %w", err)
		}

		fmt.Printf("punch(offset = %d, length = %d)\n\n", blockSize, blockSize)
		if err := discard.PunchHole(f, blockSize, blockSize); err != nil {
			fmt.Printf("*** Failed to punch block 1: %v\n", err)
			fmt.Printf("The arguments were offset = %d, length = %d, both multiples of %d.\n",
				blockSize, blockSize, blockSize)
			fmt.Println("This platform's punch primitive has adjacency constraints beyond alignment.")
			return nil
		}

		fmt.Println("All operations successful")
		return nil
	},
}

func init() {
	probeCmd.Flags().BoolVar(&probeKeep, "keep", false, "keep the scratch file after the probe")
}
