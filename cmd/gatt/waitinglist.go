package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skjal/gatt/internal/api"
	"github.com/skjal/gatt/internal/model"
)

var waitinglistCmd = &cobra.Command{
	Use:   "waitinglist",
	Short: "Appointment reminders from a waiting-list sheet",
}

var waitinglistUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a sheet and show patients grouped by reminder month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := uploadWaitingList(args[0])
		if err != nil {
			return err
		}
		months := make([]string, 0, len(groups))
		for month := range groups {
			months = append(months, month)
		}
		sort.Strings(months)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, month := range months {
			fmt.Fprintf(w, "%s mánuðir:\n", month)
			for _, patient := range groups[month] {
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
					patient.Name, patient.Kennitala, patient.Phone,
					patient.Email, patient.CareProvider)
			}
		}
		return w.Flush()
	},
}

var waitinglistSMSCmd = &cobra.Command{
	Use:   "sms <file>",
	Short: "Send reminder SMS to every patient on the sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patients, err := uploadPatients(args[0])
		if err != nil {
			return err
		}
		template, _ := cmd.Flags().GetString("message")
		messages := api.ReminderSMS(patients, template)
		if len(messages) == 0 {
			return errors.New("no patients with a phone number")
		}
		if err := client.SendSMS(ctx, messages); err != nil {
			return err
		}
		fmt.Printf("%d SMS send.\n", len(messages))
		return nil
	},
}

var waitinglistEmailCmd = &cobra.Command{
	Use:   "email <file>",
	Short: "Send reminder emails to every patient on the sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patients, err := uploadPatients(args[0])
		if err != nil {
			return err
		}
		template, _ := cmd.Flags().GetString("message")
		subject, _ := cmd.Flags().GetString("subject")

		var sent int
		for _, patient := range patients {
			if patient.Email == "" {
				continue
			}
			body := patient.PersonaliseMessage(template)
			if err := client.SendEmail(ctx, patient.Email, patient.Name, subject, body); err != nil {
				log.WithError(err).WithField("kennitala", patient.Kennitala).
					Warn("skipping patient, email failed")
				continue
			}
			sent++
		}
		fmt.Printf("%d tölvupóstar sendir.\n", sent)
		return nil
	},
}

func uploadWaitingList(path string) (map[string][]*model.Patient, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening waiting-list sheet")
	}
	defer file.Close()
	return client.UploadWaitingList(ctx, file, filepath.Base(path))
}

func uploadPatients(path string) ([]*model.Patient, error) {
	groups, err := uploadWaitingList(path)
	if err != nil {
		return nil, err
	}
	var patients []*model.Patient
	for _, group := range groups {
		patients = append(patients, group...)
	}
	return patients, nil
}

func init() {
	waitinglistSMSCmd.Flags().String("message",
		"Góðan dag %nafn%, minnum á að bóka tíma hjá %medferdaradili%.", "SMS template")
	waitinglistEmailCmd.Flags().String("message",
		"Góðan dag %nafn%,<br/>minnum á að bóka tíma hjá %medferdaradili%.", "email template")
	waitinglistEmailCmd.Flags().String("subject", "Áminning um tímabókun", "email subject")

	waitinglistCmd.AddCommand(waitinglistUploadCmd)
	waitinglistCmd.AddCommand(waitinglistSMSCmd)
	waitinglistCmd.AddCommand(waitinglistEmailCmd)
}
