package client

import (
	"context"
	"errors"
	"testing"

	"github.com/cbsinteractive/casjobs/config"
	"github.com/cbsinteractive/casjobs/response"
	"github.com/cbsinteractive/casjobs/test"
	"github.com/google/go-cmp/cmp"
)

func TestDropTable(t *testing.T) {
	tests := []struct {
		name    string
		codes   []int
		wantErr string
	}{
		{name: "dropped", codes: []int{0, 5}},
		{name: "failed", codes: []int{1, 4}, wantErr: "couldn't drop table pisces2: job 31 status is 4 (failed)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := test.NewService(t)
			svc.On(opSubmit, test.Long(31))
			for _, code := range tt.codes {
				svc.On(opStatus, test.Int(code))
			}
			c, _ := newTestClient(t, svc, config.ModeGET)

			err := c.DropTable(context.Background(), "pisces2")
			test.AssertWantErr(err, tt.wantErr, "DropTable()", t)

			p := svc.Calls(opSubmit)[0].Params
			if p.Get("qry") != "DROP TABLE pisces2" || p.Get("context") != "MYDB" {
				t.Errorf("submitted %v", p)
			}
		})
	}
}

func TestCount(t *testing.T) {
	svc := test.NewService(t)
	svc.On(opQuick, test.String("Column\n42\n"))
	c, _ := newTestClient(t, svc, config.ModeGET)

	n, err := c.Count(context.Background(), "FROM information_schema.TABLES")
	if err != nil {
		t.Fatal(err)
	}
	if n != 42 {
		t.Errorf("Count() = %d, want 42", n)
	}
	if q := svc.Calls(opQuick)[0].Params.Get("qry"); q != "SELECT COUNT(*) FROM information_schema.TABLES" {
		t.Errorf("query = %q", q)
	}
}

func TestCountMalformed(t *testing.T) {
	for _, body := range []string{"Column", "Column\nforty-two\n"} {
		svc := test.NewService(t)
		svc.On(opQuick, test.String(body))
		c, _ := newTestClient(t, svc, config.ModeGET)

		_, err := c.Count(context.Background(), "FROM Galaxy")
		var merr *response.MalformedResponseError
		if !errors.As(err, &merr) {
			t.Errorf("Count() on %q: want MalformedResponseError, got %v", body, err)
		}
	}
}

func TestListTables(t *testing.T) {
	tests := []struct {
		name, body string
		want       []string
	}{
		{
			name: "quoted names",
			body: "TABLE_NAME\n\"pisces2\"\n\"mydb_table\"\n\n",
			want: []string{"pisces2", "mydb_table"},
		},
		{
			name: "windows line endings",
			body: "TABLE_NAME\r\n\"pisces2\"\r\n",
			want: []string{"pisces2"},
		},
		{
			name: "empty mydb",
			body: "TABLE_NAME\n",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := test.NewService(t)
			svc.On(opQuick, test.String(tt.body))
			c, _ := newTestClient(t, svc, config.ModeGET)

			got, err := c.ListTables(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ListTables() mismatch (-want +got):\n%s", diff)
			}

			p := svc.Calls(opQuick)[0].Params
			if p.Get("context") != "MYDB" || p.Get("isSystem") != "true" || p.Get("taskname") != "listtables" {
				t.Errorf("params = %v", p)
			}
		})
	}
}
