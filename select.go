package main

import (
	"fmt"

	"github.com/gregLibert/dfu-token/pkg/dfu"
	"github.com/gregLibert/dfu-token/pkg/iso7816"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select",
		Short: "Select the DFU applet and print the token answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := connectReader(viper.GetInt("reader"))
			if err != nil {
				return err
			}
			defer r.Close()

			fmt.Fprintf(cmd.OutOrStdout(), ">> Using reader: %s\n", r.name)

			ch := dfu.NewCardChannel(r.card)
			ch.Record(true)
			defer ch.Zeroize()

			selErr := dfu.SelectApplet(ch, dfu.DFUAppletID)

			if report, err := iso7816.NewSelectResult(ch.Trace()); err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), report.Describe())
			}
			if viper.GetBool("verbose") {
				printTrace(cmd, ch.Trace())
			}
			return selErr
		},
	}
}

func printTrace(cmd *cobra.Command, trace iso7816.Trace) {
	for i, tx := range trace {
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] > %s\n", i+1, tx.Command)
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] < %s\n", i+1, tx.Response)
	}
}
