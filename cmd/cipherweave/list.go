package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cipherweave/internal/cipher"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available ciphers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE")
			for _, class := range []cipher.Class{cipher.Word, cipher.Letter} {
				for _, id := range cipher.ByClass(class) {
					t, _ := cipher.Lookup(id)
					fmt.Fprintf(w, "%s\t%s\t%s\n", id, t.Name(), class)
				}
			}
			return w.Flush()
		},
	}
}
