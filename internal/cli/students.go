package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MIN2MAX-M/student-reg/internal/repositories"
	"github.com/MIN2MAX-M/student-reg/internal/services"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newStudentsCmd() *cobra.Command {
	studentsCmd := &cobra.Command{
		Use:   "students",
		Short: "Manage student records",
	}

	studentsCmd.AddCommand(
		newStudentsListCmd(),
		newStudentsSearchCmd(),
		newStudentsGetCmd(),
		newStudentsCreateCmd(),
		newStudentsUpdateCmd(),
		newStudentsDeleteCmd(),
	)
	return studentsCmd
}

func newStudentService(db *gorm.DB) *services.StudentService {
	// The single-shot CLI never publishes events.
	return services.NewStudentService(repositories.NewGORMStudentRepository(db), nil)
}

func parseStudentID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid student ID %q", arg)
	}
	return uint(id), nil
}

func newStudentsListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			students, err := newStudentService(db).List(limit, offset)
			if err != nil {
				return err
			}
			renderStudentsTable(cmd.OutOrStdout(), fmt.Sprintf("Students (limit=%d, offset=%d)", limit, offset), students)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Max rows to return")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Rows to skip")
	return cmd
}

func newStudentsSearchCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search students by name, email, phone or address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			students, err := newStudentService(db).Search(args[0], limit, offset)
			if err != nil {
				return err
			}
			renderStudentsTable(cmd.OutOrStdout(), fmt.Sprintf("Search: %s (limit=%d, offset=%d)", args[0], limit, offset), students)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Max rows to return")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Rows to skip")
	return cmd
}

func newStudentsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a single student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseStudentID(args[0])
			if err != nil {
				return err
			}

			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			student, err := newStudentService(db).Get(id)
			if err != nil {
				return err
			}
			renderKV(cmd.OutOrStdout(), fmt.Sprintf("Student #%d", id), studentKV(student))
			return nil
		},
	}
}

func newStudentsCreateCmd() *cobra.Command {
	var (
		phone, address string
		age            int
		dryRun         bool
	)

	cmd := &cobra.Command{
		Use:   "create FIRST_NAME LAST_NAME EMAIL",
		Short: "Create a student",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := services.CreateStudentInput{
				FirstName: args[0],
				LastName:  args[1],
				Email:     args[2],
			}
			if cmd.Flags().Changed("phone") {
				input.Phone = &phone
			}
			if cmd.Flags().Changed("age") {
				input.Age = &age
			}
			if cmd.Flags().Changed("address") {
				input.Address = &address
			}

			// Dry-run validates and shows the would-be record without
			// touching the store.
			if dryRun {
				normalized, err := services.ValidateCreate(input)
				if err != nil {
					return err
				}
				renderKV(cmd.OutOrStdout(), "DRY RUN: would create student", createInputKV(normalized))
				return nil
			}

			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			student, err := newStudentService(db).Create(input)
			if err != nil {
				return err
			}
			renderKV(cmd.OutOrStdout(), "Created", studentKV(student))
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().IntVar(&age, "age", 0, "Age")
	cmd.Flags().StringVar(&address, "address", "", "Address")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Don't write; only show what would happen")
	return cmd
}

func newStudentsUpdateCmd() *cobra.Command {
	var (
		firstName, lastName, email string
		phone, address             string
		age                        int
		dryRun                     bool
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a student (only supplied fields change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseStudentID(args[0])
			if err != nil {
				return err
			}

			patch := services.UpdateStudentInput{}
			if cmd.Flags().Changed("first-name") {
				patch.FirstName = &firstName
			}
			if cmd.Flags().Changed("last-name") {
				patch.LastName = &lastName
			}
			if cmd.Flags().Changed("email") {
				patch.Email = &email
			}
			if cmd.Flags().Changed("phone") {
				patch.Phone = &phone
			}
			if cmd.Flags().Changed("age") {
				patch.Age = &age
			}
			if cmd.Flags().Changed("address") {
				patch.Address = &address
			}

			if dryRun {
				normalized, err := services.ValidateUpdate(patch)
				if err != nil {
					return err
				}
				pairs := updatePatchKV(normalized)
				if len(pairs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "DRY RUN: no changes provided")
					return nil
				}
				renderKV(cmd.OutOrStdout(), fmt.Sprintf("DRY RUN: would update student #%d", id), pairs)
				return nil
			}

			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			service := newStudentService(db)
			before, err := service.Get(id)
			if err != nil {
				return err
			}

			after, err := service.Update(id, patch)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderKV(out, "Before", studentKV(before))
			renderKV(out, "After", studentKV(after))
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "New first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "New last name")
	cmd.Flags().StringVar(&email, "email", "", "New email")
	cmd.Flags().StringVar(&phone, "phone", "", "New phone number")
	cmd.Flags().IntVar(&age, "age", 0, "New age")
	cmd.Flags().StringVar(&address, "address", "", "New address")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Don't write; only show what would happen")
	return cmd
}

func newStudentsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseStudentID(args[0])
			if err != nil {
				return err
			}

			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			service := newStudentService(db)
			student, err := service.Get(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				if !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete student #%d (%s)? [y/N] ", id, student.Email)) {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			deleted, err := service.Delete(id)
			if err != nil {
				return err
			}
			if deleted != 1 {
				return fmt.Errorf("delete failed: student #%d was already gone", id)
			}
			fmt.Fprintln(out, "Deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func createInputKV(in services.CreateStudentInput) []kv {
	return []kv{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"email", in.Email},
		{"phone", strOrDash(in.Phone)},
		{"age", intOrDash(in.Age)},
		{"address", strOrDash(in.Address)},
	}
}

func updatePatchKV(patch services.UpdateStudentInput) []kv {
	var pairs []kv
	if patch.FirstName != nil {
		pairs = append(pairs, kv{"first_name", *patch.FirstName})
	}
	if patch.LastName != nil {
		pairs = append(pairs, kv{"last_name", *patch.LastName})
	}
	if patch.Email != nil {
		pairs = append(pairs, kv{"email", *patch.Email})
	}
	if patch.Phone != nil {
		pairs = append(pairs, kv{"phone", *patch.Phone})
	}
	if patch.Age != nil {
		pairs = append(pairs, kv{"age", strconv.Itoa(*patch.Age)})
	}
	if patch.Address != nil {
		pairs = append(pairs, kv{"address", *patch.Address})
	}
	return pairs
}
