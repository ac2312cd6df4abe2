package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Establish a session with the configured identity provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := authService.Login(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Innskráð: %s", session.User.Name)
		if session.User.ID != "" {
			fmt.Printf(" (%s)", session.User.ID)
		}
		fmt.Println()
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Invalidate the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authService.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Útskráð.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity behind the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := authService.User()
		if user == nil {
			// a cookie session may exist without a local login
			remote, err := client.CurrentUser(ctx)
			if err != nil {
				return err
			}
			user = remote
		}
		if user == nil {
			fmt.Println("Engin virk innskráning.")
			return nil
		}
		fmt.Printf("%s\t%s\t%s\n", user.Name, user.ID, user.Email)
		return nil
	},
}
