package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cbsinteractive/casjobs/client"
	"github.com/cbsinteractive/casjobs/job"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid job id %q", s)
	}
	return id, nil
}

func newQuickCmd(a *app) *cobra.Command {
	var q client.QuickJob
	cmd := &cobra.Command{
		Use:   "quick <query>",
		Short: "Run a quick job and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Query = args[0]
			res, err := a.client.Quick(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.TaskName, "task", "", "task name")
	cmd.Flags().BoolVar(&q.System, "system", false, "run as a system job")
	return cmd
}

func newSubmitCmd(a *app) *cobra.Command {
	var (
		s    client.SubmitJob
		wait bool
	)
	cmd := &cobra.Command{
		Use:   "submit <query>",
		Short: "Submit a batch job and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s.Query = args[0]
			id, err := a.client.Submit(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, id)
			if !wait {
				return nil
			}
			st, err := a.client.Monitor(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d %s\n", st.Code(), st)
			return nil
		},
	}
	cmd.Flags().StringVar(&s.TaskName, "task", "", "task name")
	cmd.Flags().IntVar(&s.Estimate, "estimate", 0, "estimated run time in minutes")
	cmd.Flags().BoolVar(&wait, "wait", false, "monitor the job until it ends")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Print the status of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := a.client.Status(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d %s\n", st.Code(), st)
			return nil
		},
	}
}

func newCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.client.Cancel(cmd.Context(), id)
		},
	}
}

func newMonitorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor <job-id>",
		Short: "Wait for a job to end and print its final status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := a.client.Monitor(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d %s\n", st.Code(), st)
			return nil
		},
	}
}

func newJobsCmd(a *app) *cobra.Command {
	var where []string
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Search your jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var conds job.Conditions
			for _, w := range where {
				k, v, err := splitCondition(w)
				if err != nil {
					return err
				}
				conds = conds.And(k, v)
			}
			recs, err := a.client.JobInfo(cmd.Context(), conds)
			if err != nil {
				return err
			}
			for _, r := range recs {
				status := r[job.FieldStatus]
				if st, err := r.Status(); err == nil {
					status = st.String()
				}
				fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", r[job.FieldJobID], status, r.TaskName(), r.OutputLoc())
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&where, "where", nil, "search condition as key=value, repeatable")
	return cmd
}

func splitCondition(s string) (string, string, error) {
	kv := strings.SplitN(s, "=", 2)
	if len(kv) != 2 || kv[0] == "" {
		return "", "", errors.Errorf("invalid condition %q: want key=value", s)
	}
	return kv[0], kv[1], nil
}

func newOutputCmd(a *app) *cobra.Command {
	var (
		format string
		jobID  int64
	)
	cmd := &cobra.Command{
		Use:   "output <table> <file>",
		Short: "Extract a MyDB table and download it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobID != 0 {
				return a.client.GetOutputFile(cmd.Context(), jobID, args[1])
			}
			return a.client.RequestAndGetOutputFile(cmd.Context(), args[0], job.Format(format), args[1])
		},
	}
	cmd.Flags().StringVar(&format, "format", string(job.FormatCSV), "CSV, DataSet, FITS or VOTable")
	cmd.Flags().Int64Var(&jobID, "job", 0, "download the file of an existing output job instead")
	return cmd
}

func newDropCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <table>",
		Short: "Drop a MyDB table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client.DropTable(cmd.Context(), args[0])
		},
	}
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count <from-clause>",
		Short: "Count the rows of SELECT COUNT(*) <from-clause>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.client.Count(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, n)
			return nil
		},
	}
}

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables in MyDB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, err := a.client.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintln(a.out, t)
			}
			return nil
		},
	}
}
