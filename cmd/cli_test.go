package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags puts every flag back to its default so runs do not leak into
// each other through the package level command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

const cliConfig = `env: test
storage:
  driver: sqlite
  source: %s
  auto_migrate: true
security:
  bcrypt_cost: 4
observability:
  logging:
    level: error
`

var _ = Describe("CLI", func() {
	var (
		dir string
		out *bytes.Buffer
	)

	run := func(args ...string) error {
		resetFlags(rootCmd)
		out.Reset()
		rootCmd.SetOut(out)
		rootCmd.SetErr(out)
		rootCmd.SetArgs(append([]string{"--config-dir", dir}, args...))
		return rootCmd.Execute()
	}

	asAdmin := func(args ...string) error {
		return run(append(args, "--email", "admin@divron.com", "--password", "admin123")...)
	}

	asFadhil := func(args ...string) error {
		return run(append(args, "--email", "fadhil@divron.com", "--password", "secret")...)
	}

	register := func() {
		Expect(run("register",
			"--name", "Fadhil",
			"--email", "fadhil@divron.com",
			"--password", "secret",
			"--department", "Engineering",
		)).To(Succeed())
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
		cfg := fmt.Sprintf(cliConfig, filepath.Join(dir, "attendance.db"))
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(cfg), 0o644)).To(Succeed())
	})

	AfterEach(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	It("registers an employee with the employee role", func() {
		register()

		var e employee.Employee
		Expect(json.Unmarshal(out.Bytes(), &e)).To(Succeed())
		Expect(e.Email).To(Equal("fadhil@divron.com"))
		Expect(e.Role).To(Equal(employee.RoleEmployee))
		Expect(e.ID).To(HavePrefix("emp-"))
	})

	It("refuses a second check-in on the same day", func() {
		register()

		Expect(asFadhil("check-in")).To(Succeed())
		Expect(out.String()).To(ContainSubstring(`"check_out": null`))

		Expect(asFadhil("check-in")).To(MatchError(apperrors.ErrAlreadyCheckedIn))

		Expect(asFadhil("check-out")).To(Succeed())
		Expect(asFadhil("check-out")).To(MatchError(apperrors.ErrAlreadyCheckedOut))

		Expect(asFadhil("history")).To(Succeed())
		Expect(out.String()).To(ContainSubstring(time.Now().Format("2006-01-02")))
	})

	It("rejects wrong credentials", func() {
		register()
		Expect(run("check-in", "--email", "fadhil@divron.com", "--password", "nope")).
			To(MatchError(apperrors.ErrInvalidCredentials))
	})

	It("keeps employees out of admin commands", func() {
		register()
		Expect(asFadhil("employees", "list")).To(MatchError(apperrors.ErrAdminRequired))
		Expect(asFadhil("report", "--period", "daily")).To(MatchError(apperrors.ErrAdminRequired))
	})

	It("keeps the admin out of attendance commands", func() {
		Expect(asAdmin("check-in")).To(MatchError(apperrors.ErrEmployeeRequired))
	})

	It("adds staff with and without a salary and removes them", func() {
		Expect(asAdmin("employees", "add", "Sari", "sari@divron.com", "pw", "Finance", "--salary", "4500")).To(Succeed())
		var sari employee.Employee
		Expect(json.Unmarshal(out.Bytes(), &sari)).To(Succeed())
		Expect(sari.Salary).NotTo(BeNil())
		Expect(*sari.Salary).To(Equal(4500.0))

		Expect(asAdmin("employees", "add", "Bima", "bima@divron.com", "pw", "Operations")).To(Succeed())
		var bima employee.Employee
		Expect(json.Unmarshal(out.Bytes(), &bima)).To(Succeed())
		Expect(bima.Salary).To(BeNil())

		Expect(asAdmin("employees", "list")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("sari@divron.com"))
		Expect(out.String()).To(ContainSubstring("bima@divron.com"))
		Expect(out.String()).NotTo(ContainSubstring("admin@divron.com"))

		Expect(asAdmin("employees", "remove", sari.ID)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("removed " + sari.ID))

		Expect(asAdmin("employees", "list")).To(Succeed())
		Expect(out.String()).NotTo(ContainSubstring("sari@divron.com"))
	})

	It("writes the report file under --out", func() {
		register()
		Expect(asFadhil("check-in")).To(Succeed())

		reports := GinkgoT().TempDir()
		today := time.Now().Format("2006-01-02")
		Expect(asAdmin("report", "--period", "daily", "--date", today, "--out", reports)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("wrote 1 rows"))

		body, err := os.ReadFile(filepath.Join(reports, "attendance-report-daily-"+today+".csv"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("Employee Name,Department,Salary,Date,Check In,Check Out"))
		Expect(string(body)).To(ContainSubstring("Fadhil,Engineering,N/A," + today))
		Expect(string(body)).To(ContainSubstring("Not checked out"))
	})

	It("rejects an unknown report period", func() {
		err := asAdmin("report", "--period", "weekly", "--out", GinkgoT().TempDir())
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(apperrors.ErrCodeValidationFailed))
	})

	It("seeds demo staff and clears on request", func() {
		Expect(run("seed")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Seeded user: fadhil@divron.com"))

		Expect(run("seed")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("user already exists; skipping: fadhil@divron.com"))

		Expect(run("seed", "--clear")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("cleared employees and attendance"))
		Expect(out.String()).To(ContainSubstring("Seeded admin user: admin@divron.com"))
	})

	It("forgets everything between --ephemeral runs", func() {
		Expect(run("--ephemeral", "register",
			"--name", "Fadhil", "--email", "fadhil@divron.com", "--password", "secret", "--department", "Engineering",
		)).To(Succeed())

		Expect(run("--ephemeral", "check-in", "--email", "fadhil@divron.com", "--password", "secret")).
			To(MatchError(apperrors.ErrInvalidCredentials))
		Expect(filepath.Join(dir, "attendance.db")).NotTo(BeAnExistingFile())
	})
})
