package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skjal/gatt/internal/model"
)

var sendCmd = &cobra.Command{
	Use:   "send <file>",
	Short: "Send a document to receivers or a company group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "opening file")
		}
		defer func() { _ = file.Close() }()
		filename := filepath.Base(args[0])

		notes, _ := cmd.Flags().GetString("notes")
		sendMail, _ := cmd.Flags().GetBool("mail")
		company, _ := cmd.Flags().GetString("company")
		ssns, _ := cmd.Flags().GetStringSlice("ssn")

		if company != "" {
			groupName, _ := cmd.Flags().GetString("group")
			if groupName == "" {
				return errors.New("--group is required with --company")
			}
			companies, err := client.Companies(ctx)
			if err != nil {
				return err
			}
			match := model.MatchCompany(companies, company)
			if match == nil {
				return errors.Errorf("no company matches %q", company)
			}
			groups, err := client.CompanyGroups(ctx, match.SerialNumber)
			if err != nil {
				return err
			}
			for _, group := range groups {
				if group.Name == groupName {
					if err := client.SendToGroup(ctx, file, filename, notes, sendMail, group.ID); err != nil {
						return err
					}
					fmt.Println("Skrá send!")
					return nil
				}
			}
			return errors.Errorf("company %s has no group %q", match.CompanyName, groupName)
		}

		if len(ssns) == 0 {
			return errors.New("either --ssn or --company is required")
		}
		message, _ := cmd.Flags().GetString("message")
		receivers := make([]*model.Receiver, 0, len(ssns))
		for _, ssn := range ssns {
			// contact details are best-effort; sending works without them
			tel, _ := client.TelByKennitala(ctx, ssn)
			email, _ := client.EmailByKennitala(ctx, ssn)
			receivers = append(receivers, model.NewReceiver("", ssn, email, tel, message))
		}
		if err := client.SendToReceivers(ctx, file, filename, notes, sendMail, receivers); err != nil {
			return err
		}
		fmt.Println("Skrá send!")
		return nil
	},
}

var companiesCmd = &cobra.Command{
	Use:   "companies [query]",
	Short: "List recipient companies",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		companies, err := client.Companies(ctx)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			companies = model.FilterCompanies(companies, args[0])
		}
		for _, company := range companies {
			fmt.Printf("%s\t%s\n", company.SerialNumber, company.CompanyName)
		}
		return nil
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups <company-serial>",
	Short: "List the recipient groups of a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := client.CompanyGroups(ctx, args[0])
		if err != nil {
			return err
		}
		for _, group := range groups {
			description := ""
			if group.Description != nil {
				description = *group.Description
			}
			fmt.Printf("%d\t%s\t%s\n", group.ID, group.Name, description)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().String("notes", "", "notes attached to the message")
	sendCmd.Flags().Bool("mail", false, "notify receivers by mail")
	sendCmd.Flags().StringSlice("ssn", nil, "receiver kennitala (repeatable)")
	sendCmd.Flags().String("message", "", "message included in the mail notification")
	sendCmd.Flags().String("company", "", "recipient company (serial, name, or \"Name (serial)\")")
	sendCmd.Flags().String("group", "", "recipient group within the company")
}
