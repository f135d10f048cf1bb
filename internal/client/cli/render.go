package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

const timeLayout = "2006-01-02 15:04"

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// printRequests renders requests as a table. withOwner adds the employee
// column used on manager screens.
func printRequests(w io.Writer, requests []models.LeaveRequest, withOwner bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if withOwner {
		fmt.Fprintln(tw, "ID\tEMPLOYEE\tFROM\tTO\tREASON\tSTATUS\tCOMMENT\tUPDATED")
	} else {
		fmt.Fprintln(tw, "ID\tFROM\tTO\tREASON\tSTATUS\tCOMMENT\tUPDATED")
	}

	for _, r := range requests {
		updated := r.UpdatedAt.Local().Format(timeLayout)
		if withOwner {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.FullName, r.StartDate, r.EndDate, r.Reason, r.Status, orDash(r.Comment()), updated)
		} else {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.StartDate, r.EndDate, r.Reason, r.Status, orDash(r.Comment()), updated)
		}
	}
	_ = tw.Flush()
}

func printRequest(w io.Writer, r models.LeaveRequest) {
	fmt.Fprintf(w, "Request #%d by %s\n", r.ID, r.FullName)
	fmt.Fprintf(w, "  Dates:   %s .. %s\n", r.StartDate, r.EndDate)
	fmt.Fprintf(w, "  Reason:  %s\n", r.Reason)
	fmt.Fprintf(w, "  Status:  %s\n", r.Status)
	if c := r.Comment(); c != "" {
		fmt.Fprintf(w, "  Comment: %s\n", c)
	}
	fmt.Fprintf(w, "  Created: %s\n", r.CreatedAt.Local().Format(timeLayout))
}

func printEmployees(w io.Writer, employees []models.Identity) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tEMAIL")
	for _, e := range employees {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Username, e.FullName, e.Email)
	}
	_ = tw.Flush()
}
