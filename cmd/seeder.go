package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/divron/attendance/internal/attendance"
	"github.com/divron/attendance/internal/employee"
	"github.com/spf13/cobra"
)

const demoPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with sample data",
	Long:  `Seed the store with the admin account plus demo staff and a week of attendance for development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if clearData {
			if err := app.Repo.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear data: %w", err)
			}
			cmd.Println("cleared employees and attendance")
		}

		seeded, err := app.Repo.Initialize(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		if seeded {
			cmd.Println("Seeded admin user:", app.Config.Admin.Email)
		}

		staff := []employee.RegisterDTO{
			{Name: "Fadhil", Email: "fadhil@divron.com", Password: demoPassword, Department: "Engineering"},
			{Name: "Sari", Email: "sari@divron.com", Password: demoPassword, Department: "Finance"},
			{Name: "Bima", Email: "bima@divron.com", Password: demoPassword, Department: "Operations"},
		}

		now := time.Now()
		for _, dto := range staff {
			if app.Employees.EmailTaken(ctx, dto.Email) {
				cmd.Println("user already exists; skipping:", dto.Email)
				continue
			}
			e, err := app.Employees.Create(ctx, dto.ToCreateDTO())
			if err != nil {
				return fmt.Errorf("failed to insert %s: %w", dto.Email, err)
			}
			cmd.Println("Seeded user:", e.Email)

			for day := 7; day >= 1; day-- {
				date := now.AddDate(0, 0, -day)
				if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
					continue
				}
				checkOut := "17:00:00"
				if _, err := app.Repo.AddAttendanceRecord(ctx, attendance.Record{
					EmployeeID: e.ID,
					Date:       attendance.FormatDate(date),
					CheckIn:    "09:00:00",
					CheckOut:   &checkOut,
				}); err != nil {
					return fmt.Errorf("failed to insert attendance: %w", err)
				}
			}
		}

		cmd.Println("Seeding completed")
		return nil
	},
}
