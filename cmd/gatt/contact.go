package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contactCmd = &cobra.Command{
	Use:   "contact <kennitala>",
	Short: "Look up or update a person's phone and email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kennitala := args[0]
		tel, _ := cmd.Flags().GetString("set-tel")
		email, _ := cmd.Flags().GetString("set-email")

		if tel != "" {
			if err := client.UpdateTel(ctx, kennitala, tel); err != nil {
				return err
			}
		}
		if email != "" {
			if err := client.UpdateEmail(ctx, kennitala, email); err != nil {
				return err
			}
		}
		if tel != "" || email != "" {
			fmt.Println("Uppfært.")
			return nil
		}

		tel, err := client.TelByKennitala(ctx, kennitala)
		if err != nil {
			return err
		}
		email, err = client.EmailByKennitala(ctx, kennitala)
		if err != nil {
			return err
		}
		fmt.Printf("sími:\t%s\nnetfang:\t%s\n", tel, email)
		return nil
	},
}

func init() {
	contactCmd.Flags().String("set-tel", "", "store a new phone number")
	contactCmd.Flags().String("set-email", "", "store a new email address")
}
