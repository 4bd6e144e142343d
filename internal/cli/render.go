package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/MIN2MAX-M/student-reg/internal/models"

	"github.com/olekukonko/tablewriter"
)

const timeLayout = "2006-01-02 15:04:05"

func renderStudentsTable(w io.Writer, title string, students []models.Student) {
	fmt.Fprintln(w, title)
	if len(students) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "First Name", "Last Name", "Email", "Created At", "Updated At"})
	for _, s := range students {
		table.Append([]string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.FirstName,
			s.LastName,
			s.Email,
			s.CreatedAt.Format(timeLayout),
			s.UpdatedAt.Format(timeLayout),
		})
	}
	table.Render()
}

func renderMigrationsTable(w io.Writer, title string, records []models.MigrationRecord) {
	fmt.Fprintln(w, title)
	if len(records) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Version", "Description", "Installed On", "Success"})
	for _, r := range records {
		table.Append([]string{
			strconv.Itoa(r.InstalledRank),
			r.Version,
			r.Description,
			r.InstalledOn.Format(timeLayout),
			strconv.FormatBool(r.Success),
		})
	}
	table.Render()
}

// kv is one key/value line of a detail block.
type kv struct {
	key   string
	value string
}

func renderKV(w io.Writer, title string, pairs []kv) {
	fmt.Fprintln(w, title)
	if len(pairs) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "  %s: %s\n", p.key, p.value)
	}
}

func studentKV(s *models.Student) []kv {
	return []kv{
		{"id", strconv.FormatUint(uint64(s.ID), 10)},
		{"first_name", s.FirstName},
		{"last_name", s.LastName},
		{"email", s.Email},
		{"phone", strOrDash(s.Phone)},
		{"age", intOrDash(s.Age)},
		{"address", strOrDash(s.Address)},
		{"created_at", s.CreatedAt.Format(timeLayout)},
		{"updated_at", s.UpdatedAt.Format(timeLayout)},
	}
}

func strOrDash(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func intOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}
