package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skjal/gatt/internal/list"
	"github.com/skjal/gatt/internal/model"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Transferred files",
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transferred files",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := list.DefaultParams()
		if page, _ := cmd.Flags().GetInt64("page"); page > 0 {
			params.Page = page
		}
		if size, _ := cmd.Flags().GetInt64("page-size"); size > 0 {
			params.PageSize = size
		}
		for _, field := range []string{"filename", "name", "ssn", "group_name"} {
			if value, _ := cmd.Flags().GetString(field); value != "" {
				page := params.Page
				params.SetFilter(field, value)
				params.Page = page // explicit --page wins over the reset
			}
		}
		if cmd.Flags().Changed("seen") {
			seen, _ := cmd.Flags().GetBool("seen")
			params.Seen = &seen
		}
		from, to, err := dateRange(cmd)
		if err != nil {
			return err
		}
		params.From, params.To = from, to

		fetch := client.ReceivedFiles
		if sent, _ := cmd.Flags().GetBool("sent"); sent {
			fetch = client.SentFiles
		}
		page, err := fetch(ctx, params)
		if err != nil {
			return err
		}

		sortField, _ := cmd.Flags().GetString("sort")
		sortAsc, _ := cmd.Flags().GetBool("asc")
		list.SortRecords(page.Results, sortField, sortAsc)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAFN\tKENNITALA\tHÓPUR\tSKRÁARHEITI\tDAGSETNING\tSÉÐ")
		for _, record := range page.Results {
			created := ""
			if !record.Created.IsZero() {
				created = record.Created.Format("2/1/2006 15:04")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%t\n",
				record.ID, record.Creator, record.CreatorSSN, record.GroupName,
				record.Filename, created, record.Seen)
		}
		_ = w.Flush()
		fmt.Printf("Síða %d af %d (%d skrár)\n", params.Page, list.TotalPages(page.Count, params.PageSize), page.Count)
		return nil
	},
}

var filesSeenCmd = &cobra.Command{
	Use:   "seen <id>",
	Short: "Toggle a file's seen flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.Wrap(err, "parsing file id")
		}
		record := &model.FileRecord{ID: id}
		if err := client.ToggleSeen(ctx, record); err != nil {
			return err
		}
		fmt.Printf("Skrá %d merkt.\n", id)
		return nil
	},
}

var filesDownloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download a file by its download URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		record := &model.FileRecord{DownloadURL: args[0]}
		filename, data, err := client.Download(ctx, record)
		if err != nil {
			return err
		}
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			filename = out
		}
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			return errors.Wrap(err, "writing file")
		}
		fmt.Printf("Sótti %s (%d bæti)\n", filename, len(data))
		return nil
	},
}

func dateRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	parse := func(flag string) (time.Time, error) {
		value, _ := cmd.Flags().GetString(flag)
		if value == "" {
			return time.Time{}, nil
		}
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, errors.Errorf("invalid --%s, expected 2006-01-02", flag)
		}
		return t, nil
	}
	from, err := parse("from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parse("to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func init() {
	filesListCmd.Flags().Bool("sent", false, "list sent files instead of received")
	filesListCmd.Flags().Int64("page", 0, "page number")
	filesListCmd.Flags().Int64("page-size", 0, "rows per page")
	filesListCmd.Flags().String("filename", "", "filter by filename")
	filesListCmd.Flags().String("name", "", "filter by sender name")
	filesListCmd.Flags().String("ssn", "", "filter by sender kennitala")
	filesListCmd.Flags().String("group_name", "", "filter by group")
	filesListCmd.Flags().Bool("seen", false, "filter by seen flag")
	filesListCmd.Flags().String("from", "", "records created after (2006-01-02)")
	filesListCmd.Flags().String("to", "", "records created before (2006-01-02)")
	filesListCmd.Flags().String("sort", "created", "sort field")
	filesListCmd.Flags().Bool("asc", false, "sort ascending")

	filesDownloadCmd.Flags().String("output", "", "override the stored filename")

	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesSeenCmd)
	filesCmd.AddCommand(filesDownloadCmd)
}
