package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skjal/gatt/internal/api"
	"github.com/skjal/gatt/internal/list"
	"github.com/skjal/gatt/internal/model"
)

var formrequestCmd = &cobra.Command{
	Use:   "formrequest",
	Short: "Survey-request administration",
}

var formrequestListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List form requests",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		requests, err := client.FormRequests(ctx)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			requests = api.SearchFormRequests(requests, args[0])
		}
		if active, _ := cmd.Flags().GetBool("active"); active {
			now := time.Now()
			narrowed := requests[:0]
			for _, request := range requests {
				if request.ActiveAt(now) {
					narrowed = append(narrowed, request)
				}
			}
			requests = narrowed
		}

		sortField, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")
		list.SortRecords(requests, sortField, !desc)

		page, _ := cmd.Flags().GetInt64("page")
		pageSize, _ := cmd.Flags().GetInt64("page-size")
		if pageSize <= 0 {
			pageSize = list.DefaultPageSize
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFORM\tSKJÓLSTÆÐINGUR\tKENNITALA\tGILDIR FRÁ\tGILDIR TIL")
		for _, request := range list.Paginate(requests, page, pageSize) {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				request.ID, request.Name, request.UserName, request.UserKennitala,
				looseDate(request.ValidFrom), looseDate(request.ValidTo))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d beiðnir, síða %d af %d\n",
			len(requests), page, list.TotalPages(int64(len(requests)), pageSize))
		return nil
	},
}

var formrequestCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Assign a form to a client",
	RunE: func(cmd *cobra.Command, args []string) error {
		kennitala, _ := cmd.Flags().GetString("kennitala")
		name, _ := cmd.Flags().GetString("name")
		person := &model.Person{Nafn: name, Kennitala: kennitala}
		if name == "" && kennitala != "" {
			// resolve the name from the registry, first hit wins
			hits, err := client.TjodskraByKennitala(ctx, kennitala)
			if err == nil && len(hits) > 0 {
				person = hits[0]
			}
		}

		formInput, _ := cmd.Flags().GetString("form")
		forms, err := client.TallyForms(ctx)
		if err != nil {
			return err
		}
		form := api.MatchTallyForm(forms, formInput)
		if form == nil {
			return errors.Errorf("no catalogue form matches %q", formInput)
		}

		requesterText, _ := cmd.Flags().GetString("requester-text")
		validFrom, _ := cmd.Flags().GetString("valid-from")
		validTo, _ := cmd.Flags().GetString("valid-to")
		draft, err := model.NewFormRequestDraft(person, form, requesterText, validFrom, validTo)
		if err != nil {
			return err
		}
		created, err := client.CreateFormRequest(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Printf("Beiðni %d stofnuð: %s fyrir %s\n", created.ID, created.Name, draft.Name)
		return nil
	},
}

var formrequestUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an existing form request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parsing request id")
		}

		patch := &model.FormRequestPatch{}
		patch.Name, _ = cmd.Flags().GetString("name")
		if formInput, _ := cmd.Flags().GetString("form"); formInput != "" {
			forms, err := client.TallyForms(ctx)
			if err != nil {
				return err
			}
			form := api.MatchTallyForm(forms, formInput)
			if form == nil {
				return errors.Errorf("no catalogue form matches %q", formInput)
			}
			patch.FormName = form.Name
			patch.TallyID = form.TallyID
		}
		if text, _ := cmd.Flags().GetString("requester-text"); text != "" {
			patch.RequesterText = &text
		}
		if from, _ := cmd.Flags().GetString("valid-from"); from != "" {
			patch.ValidFrom = &from
		}
		if to, _ := cmd.Flags().GetString("valid-to"); to != "" {
			patch.ValidTo = &to
		}

		updated, err := client.UpdateFormRequest(ctx, id, patch)
		if err != nil {
			return err
		}
		fmt.Printf("Beiðni %d uppfærð.\n", updated.ID)
		return nil
	},
}

var formrequestDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a form request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parsing request id")
		}
		if err := client.DeleteFormRequest(ctx, id); err != nil {
			return err
		}
		fmt.Println("Beiðni eytt.")
		return nil
	},
}

var formrequestFormsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List the survey-form catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		forms, err := client.TallyForms(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TALLY\tNAFN\tFYRIR ANNAN\tSLÓÐ")
		for _, form := range forms {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", form.TallyID, form.Name, form.ForOther, form.FormURL)
		}
		return w.Flush()
	},
}

var formrequestStaffCmd = &cobra.Command{
	Use:   "staff",
	Short: "List the staff directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		persons, err := client.StaffUsers(ctx)
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

func looseDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2.1.2006 15:04")
}

func init() {
	formrequestListCmd.Flags().Bool("active", false, "only requests whose validity window covers now")
	formrequestListCmd.Flags().String("sort", "id", "sort field")
	formrequestListCmd.Flags().Bool("desc", false, "sort descending")
	formrequestListCmd.Flags().Int64("page", 1, "page number")
	formrequestListCmd.Flags().Int64("page-size", 0, "rows per page")

	formrequestCreateCmd.Flags().String("kennitala", "", "client kennitala")
	formrequestCreateCmd.Flags().String("name", "", "client name (resolved from the registry when omitted)")
	formrequestCreateCmd.Flags().String("form", "", "catalogue form, by tally id or name")
	formrequestCreateCmd.Flags().String("requester-text", "", "note shown to the client")
	formrequestCreateCmd.Flags().String("valid-from", "", "validity start (2006-01-02T15:04)")
	formrequestCreateCmd.Flags().String("valid-to", "", "validity end (2006-01-02T15:04)")

	formrequestUpdateCmd.Flags().String("name", "", "display name")
	formrequestUpdateCmd.Flags().String("form", "", "catalogue form, by tally id or name")
	formrequestUpdateCmd.Flags().String("requester-text", "", "note shown to the client")
	formrequestUpdateCmd.Flags().String("valid-from", "", "validity start (2006-01-02T15:04)")
	formrequestUpdateCmd.Flags().String("valid-to", "", "validity end (2006-01-02T15:04)")

	formrequestCmd.AddCommand(formrequestListCmd)
	formrequestCmd.AddCommand(formrequestCreateCmd)
	formrequestCmd.AddCommand(formrequestUpdateCmd)
	formrequestCmd.AddCommand(formrequestDeleteCmd)
	formrequestCmd.AddCommand(formrequestFormsCmd)
	formrequestCmd.AddCommand(formrequestStaffCmd)
}
