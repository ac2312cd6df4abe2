package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skjal/gatt/internal/api"
	"github.com/skjal/gatt/internal/list"
	"github.com/skjal/gatt/internal/model"
	"github.com/skjal/gatt/internal/util"
)

var umbodCmd = &cobra.Command{
	Use:   "umbod",
	Short: "Power-of-attorney records",
}

var umbodShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current user's own record",
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := client.Umbod(ctx)
		if err != nil {
			return err
		}
		if record == nil {
			fmt.Println("Ekkert umboð skráð.")
			return nil
		}
		printUmbod(record)
		return nil
	},
}

var umbodGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Delegate authorization to one or more grantees",
	RunE: func(cmd *cobra.Command, args []string) error {
		// the grantor identity comes from the verified session, polled
		// briefly since it may lag a fresh login
		user, err := client.AwaitCurrentUser(ctx, util.PollOptions{
			MaxAttempts: 40,
			StartDelay:  500 * time.Millisecond,
			MaxDelay:    1500 * time.Millisecond,
		})
		if err != nil {
			return errors.Wrap(err, "fetching grantor identity")
		}

		entries, _ := cmd.Flags().GetStringSlice("grantee")
		grantees := make([]model.Umbodsthegi, 0, len(entries))
		for _, entry := range entries {
			name, kennitala, found := strings.Cut(entry, ":")
			if !found {
				return errors.Errorf("invalid grantee %q, expected name:kennitala", entry)
			}
			grantees = append(grantees, model.Umbodsthegi{Nafn: name, Kennitala: kennitala})
		}
		grant, err := model.NewUmbodGrant(user.Name, user.ID, grantees)
		if err != nil {
			return err
		}
		if err := client.GrantUmbod(ctx, grant); err != nil {
			return err
		}
		fmt.Println("Skráning send.")
		return nil
	},
}

var umbodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records (staff view)",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := client.UmbodList(ctx)
		if err != nil {
			return err
		}
		if all, _ := cmd.Flags().GetBool("all"); !all {
			records = api.ActiveUmbod(records, time.Now())
		}
		if holder, _ := cmd.Flags().GetString("holder"); holder != "" {
			narrowed := records[:0]
			for _, record := range records {
				if record.MatchesHolder(holder) {
					narrowed = append(narrowed, record)
				}
			}
			records = narrowed
		}

		sortField, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")
		list.SortRecords(records, sortField, !desc)

		page, _ := cmd.Flags().GetInt64("page")
		pageSize, _ := cmd.Flags().GetInt64("page-size")
		if pageSize <= 0 {
			pageSize = list.DefaultPageSize
		}
		for _, record := range list.Paginate(records, page, pageSize) {
			printUmbod(record)
		}
		fmt.Printf("%d umboð, síða %d af %d\n",
			len(records), page, list.TotalPages(int64(len(records)), pageSize))
		return nil
	},
}

var umbodHistoryCmd = &cobra.Command{
	Use:   "history <kennitala>",
	Short: "Show all revisions of one grantor's record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		revisions, err := client.UmbodHistory(ctx, args[0])
		if err != nil {
			return err
		}
		var prev *model.Umbod
		for _, revision := range revisions {
			printUmbod(revision)
			if diff := revision.Diff(prev); diff != "" {
				fmt.Println(diff)
			}
			prev = revision
		}
		return nil
	},
}

var umbodSignoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Tear the umboð session down",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.SignOut(ctx); err != nil {
			return err
		}
		fmt.Println("Útskráð.")
		return nil
	},
}

func printUmbod(record *model.Umbod) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tgildir %s – %s\n",
		record.Nafn, record.Kennitala,
		record.GildirFra.Format("2.1.2006"), record.GildirTil.Format("2.1.2006"))
	for _, grantee := range record.Umbodsthegar {
		fmt.Fprintf(w, "  ↳ %s\t%s\n", grantee.Nafn, grantee.Kennitala)
	}
	_ = w.Flush()
}

func init() {
	umbodGrantCmd.Flags().StringSlice("grantee", nil, "grantee as name:kennitala (repeatable)")

	umbodListCmd.Flags().Bool("all", false, "include expired records")
	umbodListCmd.Flags().String("holder", "", "filter by grantee name or kennitala")
	umbodListCmd.Flags().String("sort", "nafn", "sort field")
	umbodListCmd.Flags().Bool("desc", false, "sort descending")
	umbodListCmd.Flags().Int64("page", 1, "page number")
	umbodListCmd.Flags().Int64("page-size", 0, "rows per page")

	umbodCmd.AddCommand(umbodShowCmd)
	umbodCmd.AddCommand(umbodGrantCmd)
	umbodCmd.AddCommand(umbodListCmd)
	umbodCmd.AddCommand(umbodHistoryCmd)
	umbodCmd.AddCommand(umbodSignoutCmd)
}
