package client

import (
	"context"
	"strconv"
	"strings"

	"github.com/cbsinteractive/casjobs/job"
	"github.com/cbsinteractive/casjobs/response"
)

const listTablesQuery = "SELECT table_name FROM information_schema.TABLES"

// DropTable drops a MyDB table and waits for the drop job to finish.
func (c *Client) DropTable(ctx context.Context, table string) error {
	id, err := c.Submit(ctx, SubmitJob{Query: "DROP TABLE " + table, Context: job.ContextMyDB})
	if err != nil {
		return err
	}
	return c.await(ctx, id, "couldn't drop table "+table)
}

// Count runs "SELECT COUNT(*) <fragment>" as a quick job and returns
// the count.
func (c *Client) Count(ctx context.Context, fragment string) (int64, error) {
	res, err := c.Quick(ctx, QuickJob{Query: "SELECT COUNT(*) " + fragment})
	if err != nil {
		return 0, err
	}
	lines := strings.Split(res, "\n")
	if len(lines) < 2 {
		return 0, response.Malformed("count result has no value line: %q", res)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(lines[1]), 10, 64)
	if err != nil {
		return 0, &response.MalformedResponseError{Msg: "count result is not an integer", Err: err}
	}
	return n, nil
}

// ListTables returns the names of the tables in MyDB.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	res, err := c.Quick(ctx, QuickJob{
		Query:    listTablesQuery,
		Context:  job.ContextMyDB,
		TaskName: "listtables",
		System:   true,
	})
	if err != nil {
		return nil, err
	}

	lines := strings.Split(res, "\n")
	tables := []string{}
	for _, l := range lines[1:] {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		tables = append(tables, strings.Trim(l, `"`))
	}
	return tables, nil
}
