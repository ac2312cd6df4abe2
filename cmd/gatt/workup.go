package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skjal/gatt/internal/api"
	"github.com/skjal/gatt/internal/list"
	"github.com/skjal/gatt/internal/model"
)

var workupCmd = &cobra.Command{
	Use:   "workup [query]",
	Short: "List ADHD workup cases",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := client.WorkupRecords(ctx)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			records = api.SearchWorkupRecords(records, args[0])
		}

		sortField, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")
		list.SortRecords(records, sortField, !desc)

		page, _ := cmd.Flags().GetInt64("page")
		pageSize, _ := cmd.Flags().GetInt64("page-size")
		if pageSize <= 0 {
			pageSize = list.DefaultPageSize
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAFN\tKENNITALA\tSTOFNAÐ\tSTAÐA")
		for _, record := range list.Paginate(records, page, pageSize) {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				record.ID, record.UserName, record.UserKennitala,
				record.CreatedAt.Format("2.1.2006"), workupStage(record))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d mál, síða %d af %d\n",
			len(records), page, list.TotalPages(int64(len(records)), pageSize))
		return nil
	},
}

// workupStage names the furthest stage the case has reached.
func workupStage(record *model.WorkupRecord) string {
	switch {
	case record.IsCompleted:
		return "lokið"
	case record.DoctorCompleted != nil:
		return "læknir"
	case record.PsychologistCompleted != nil:
		return "sálfræðingur"
	case record.NurseCompleted != nil:
		return "hjúkrunarfræðingur"
	case record.ScreeningCompleted != nil:
		return "skimun"
	case record.FormsCompleted != nil:
		return "spurningalistar"
	default:
		return "nýskráð"
	}
}

func init() {
	workupCmd.Flags().String("sort", "created_at", "sort field")
	workupCmd.Flags().Bool("desc", false, "sort descending")
	workupCmd.Flags().Int64("page", 1, "page number")
	workupCmd.Flags().Int64("page-size", 0, "rows per page")
}
