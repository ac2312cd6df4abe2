package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skjal/gatt/internal/model"
)

var tjodskraCmd = &cobra.Command{
	Use:   "tjodskra <query>",
	Short: "Suggest persons from the national registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		byKennitala, _ := cmd.Flags().GetBool("kennitala")
		credentialed, _ := cmd.Flags().GetBool("umbod")

		var (
			persons []*model.Person
			err     error
		)
		switch {
		case byKennitala && credentialed:
			persons, err = client.UmbodTjodskraByKennitala(ctx, args[0])
		case byKennitala:
			persons, err = client.TjodskraByKennitala(ctx, args[0])
		case credentialed:
			persons, err = client.UmbodTjodskraByName(ctx, args[0])
		default:
			persons, err = client.TjodskraByName(ctx, args[0])
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, person := range persons {
			fmt.Fprintf(w, "%s\t%s\n", person.Nafn, person.Kennitala)
		}
		return w.Flush()
	},
}

func init() {
	tjodskraCmd.Flags().Bool("kennitala", false, "query by kennitala prefix instead of name")
	tjodskraCmd.Flags().Bool("umbod", false, "use the cookie-backed umboð lookup")
}
