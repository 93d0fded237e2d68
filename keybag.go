package main

import (
	"fmt"
	"os"

	"github.com/gregLibert/dfu-token/pkg/dfu"
	"github.com/spf13/cobra"
)

func newKeyBagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keybag",
		Short: "Inspect or build platform key bag files",
	}
	cmd.AddCommand(newKeyBagInspectCmd())
	cmd.AddCommand(newKeyBagPackCmd())
	return cmd
}

func newKeyBagInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the blobs of a key bag file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			bag, err := dfu.ParseKeyBag(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key bag %s: %d blobs, %d bytes\n", args[0], bag.Len(), bag.Size())
			for i, blob := range bag {
				fmt.Fprintf(out, "  [%d] %d bytes\n", i, len(blob))
			}
			return nil
		},
	}
}

func newKeyBagPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <out> <blob>...",
		Short: "Build a key bag file from raw blob files, in order",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var bag dfu.KeyBag
			for _, path := range args[1:] {
				blob, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				bag = append(bag, dfu.KeyBlob(blob))
			}

			raw, err := bag.Encode()
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], raw, 0o600); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d blobs, %d bytes\n", args[0], bag.Len(), len(raw))
			return nil
		},
	}
}
