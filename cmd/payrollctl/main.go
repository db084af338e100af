// Command payrollctl generates one month's payroll from the command line.
//
//	payrollctl --month 2 --year 2025 [--employee id]... [--policy best_effort] [--xlsx report.xlsx] [--json]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/export"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
	"github.com/spf13/pflag"
)

type options struct {
	month     int
	year      int
	employees []string
	policy    string
	xlsxPath  string
	asJSON    bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("payrollctl", pflag.ContinueOnError)
	fs.IntVarP(&opts.month, "month", "m", 0, "payroll month (1-12)")
	fs.IntVarP(&opts.year, "year", "y", 0, "payroll year")
	fs.StringArrayVarP(&opts.employees, "employee", "e", nil, "employee id to generate; repeatable, defaults to all active employees")
	fs.StringVar(&opts.policy, "policy", "", "batch policy: fail_fast or best_effort (default from PAYROLL_BATCH_POLICY)")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "write the batch report to this .xlsx file")
	fs.BoolVar(&opts.asJSON, "json", false, "print the batch report as JSON")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if !fs.Changed("month") || !fs.Changed("year") {
		return options{}, errors.New("--month and --year are required")
	}
	return opts, nil
}

func (o options) request() payroll.GeneratePayrollRequest {
	month, year := o.month, o.year
	return payroll.GeneratePayrollRequest{
		Month:       &month,
		Year:        &year,
		EmployeeIDs: o.employees,
		Policy:      o.policy,
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "payrollctl:", err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "payrollctl:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	// Ctrl-C stops launching employees; those in flight still finish
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	policy, err := payroll.ParseBatchPolicy(cfg.Payroll.BatchPolicy)
	if err != nil {
		return err
	}

	svc := payrollService.NewPayrollService(
		postgresql.NewTransactor(db),
		postgresql.NewPayrollRepository(db),
		postgresql.NewSalaryConfigRepository(db),
		postgresql.NewEmployeeRepository(db),
		postgresql.NewAttendanceRepository(db),
		postgresql.NewLeaveRequestRepository(db),
		payrollService.Options{Workers: cfg.Payroll.Workers, DefaultPolicy: policy},
	)

	report, err := svc.GeneratePayroll(ctx, opts.request())
	if err != nil {
		return err
	}

	if opts.asJSON {
		err = printJSON(os.Stdout, report)
	} else {
		err = printSummary(os.Stdout, report)
	}
	if err != nil {
		return err
	}

	if opts.xlsxPath != "" {
		if err := writeXLSX(opts.xlsxPath, report); err != nil {
			return err
		}
		slog.Info("Batch report written", "path", opts.xlsxPath)
	}

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d employee(s) failed", len(report.Failures))
	}
	return nil
}

func printJSON(w io.Writer, report payroll.BatchReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payroll.NewGeneratePayrollResponse(report))
}

func printSummary(w io.Writer, report payroll.BatchReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Payroll %02d/%d (%s)\n\n", report.Period.Month, report.Period.Year, report.Policy)
	fmt.Fprintln(tw, "EMPLOYEE ID\tNAME\tBASIC SALARY\tDEDUCTION\tNET PAYABLE\tPAYROLL ID")
	for _, r := range report.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.EmployeeID, r.EmployeeName,
			r.BasicSalary.StringFixed(2), r.TotalDeduction.StringFixed(2), r.NetPayableSalary.StringFixed(2),
			r.PayrollID)
	}
	fmt.Fprintf(tw, "\n%d generated, %d failed\n", len(report.Results), len(report.Failures))
	for _, f := range report.Failures {
		fmt.Fprintf(tw, "FAILED\t%s\t%s\t%v\n", f.EmployeeID, f.EmployeeName, f.Err)
	}
	return tw.Flush()
}

func writeXLSX(path string, report payroll.BatchReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteBatchReportXLSX(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
