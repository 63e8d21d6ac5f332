package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/divron/attendance/internal/auth"
	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/internal/report"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string

	registerName       string
	registerDepartment string

	addSalary float64

	reportPeriod string
	reportDate   string
	reportFormat string
	reportOut    string
)

// login builds the App and authenticates the session manager with the
// credentials passed on the command line. A non-empty role must match the
// logged in account.
func login(ctx context.Context, role employee.Role) (*App, *employee.Employee, error) {
	app, err := bootstrap(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := app.Manager.Login(ctx, loginEmail, loginPassword); err != nil {
		_ = app.Close()
		return nil, nil, err
	}
	current, _ := app.Manager.CurrentUser()
	if role != "" {
		if err := auth.RequireRole(current, role); err != nil {
			app.Manager.Logout()
			_ = app.Close()
			return nil, nil, err
		}
	}
	return app, current, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an employee account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		e, err := app.Manager.Register(ctx, employee.RegisterDTO{
			Name:       registerName,
			Email:      loginEmail,
			Password:   loginPassword,
			Department: registerDepartment,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, e)
	},
}

var checkInCmd = &cobra.Command{
	Use:   "check-in",
	Short: "Record today's check-in for the logged in employee",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, current, err := login(ctx, employee.RoleEmployee)
		if err != nil {
			return err
		}
		defer app.Close()

		rec, err := app.Attendance.CheckIn(ctx, current.ID)
		if err != nil {
			return err
		}
		return printJSON(cmd, rec)
	},
}

var checkOutCmd = &cobra.Command{
	Use:   "check-out",
	Short: "Record today's check-out for the logged in employee",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, current, err := login(ctx, employee.RoleEmployee)
		if err != nil {
			return err
		}
		defer app.Close()

		rec, err := app.Attendance.CheckOut(ctx, current.ID)
		if err != nil {
			return err
		}
		return printJSON(cmd, rec)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the logged in employee's attendance, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, current, err := login(ctx, employee.RoleEmployee)
		if err != nil {
			return err
		}
		defer app.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tCHECK IN\tCHECK OUT")
		for _, r := range app.Attendance.History(ctx, current.ID) {
			out := "-"
			if r.CheckOut != nil {
				out = *r.CheckOut
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Date, r.CheckIn, out)
		}
		return w.Flush()
	},
}

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Manage staff (admin only)",
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff members",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, _, err := login(ctx, employee.RoleAdmin)
		if err != nil {
			return err
		}
		defer app.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tDEPARTMENT\tJOINED")
		for _, e := range app.Employees.ListStaff(ctx) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Email, e.Department, e.JoinDate)
		}
		return w.Flush()
	},
}

var employeesAddCmd = &cobra.Command{
	Use:   "add NAME EMAIL PASSWORD DEPARTMENT",
	Short: "Add a staff member",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, _, err := login(ctx, employee.RoleAdmin)
		if err != nil {
			return err
		}
		defer app.Close()

		dto := employee.CreateEmployeeDTO{
			Name:       args[0],
			Email:      args[1],
			Password:   args[2],
			Department: args[3],
		}
		if cmd.Flags().Changed("salary") {
			dto.Salary = &addSalary
		}
		e, err := app.Employees.Create(ctx, dto)
		if err != nil {
			return err
		}
		return printJSON(cmd, e)
	},
}

var employeesRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a staff member and their attendance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, _, err := login(ctx, employee.RoleAdmin)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Employees.Remove(ctx, args[0]); err != nil {
			return err
		}
		cmd.Println("removed", args[0])
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export an attendance report (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, _, err := login(ctx, employee.RoleAdmin)
		if err != nil {
			return err
		}
		defer app.Close()

		file, err := app.Reports.Generate(ctx, report.Request{
			Period: reportPeriod,
			Date:   reportDate,
			Format: reportFormat,
		})
		if err != nil {
			return err
		}

		path := filepath.Join(reportOut, file.Name)
		if err := os.WriteFile(path, file.Body, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		cmd.Printf("wrote %d rows to %s\n", file.Rows, path)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, checkInCmd, checkOutCmd, historyCmd, employeesCmd, reportCmd} {
		c.PersistentFlags().StringVar(&loginEmail, "email", "", "account email")
		c.PersistentFlags().StringVar(&loginPassword, "password", "", "account password")
	}

	registerCmd.Flags().StringVar(&registerName, "name", "", "full name")
	registerCmd.Flags().StringVar(&registerDepartment, "department", "", "department")

	employeesAddCmd.Flags().Float64Var(&addSalary, "salary", 0, "monthly salary")
	employeesCmd.AddCommand(employeesListCmd, employeesAddCmd, employeesRemoveCmd)

	reportCmd.Flags().StringVar(&reportPeriod, "period", string(report.PeriodDaily), "daily, monthly or yearly")
	reportCmd.Flags().StringVar(&reportDate, "date", time.Now().Format("2006-01-02"), "selected date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportFormat, "format", string(report.FormatCSV), "csv or xlsx")
	reportCmd.Flags().StringVar(&reportOut, "out", ".", "output directory")
}
