package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func setenv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		old, had := os.LookupEnv(k)
		if err := os.Setenv(k, v); err != nil {
			t.Fatal(err)
		}
		k := k
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	setenv(t, map[string]string{
		"CASJOBS_WSID":          "123456789",
		"CASJOBS_PW":            "hunter2",
		"CASJOBS_REQUEST_MODE":  "post",
		"CASJOBS_POLL_INTERVAL": "250ms",
		"CASJOBS_LOG_LEVEL":     "debug",
		"CASJOBS_LOG_FORMAT":    "json",
	})

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	want := &Config{
		WSID:         123456789,
		Password:     "hunter2",
		BaseURL:      "http://casjobs.sdss.org/CasJobs/services/jobs.asmx",
		RequestMode:  "post",
		Context:      "DR7",
		PollInterval: 250 * time.Millisecond,
		Env:          "dev",
		Log:          Log{Level: "debug", Format: "json"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate(): %v", err)
	}
}

func TestLoadConfigBadWSID(t *testing.T) {
	setenv(t, map[string]string{"CASJOBS_WSID": "not-a-number"})
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for a non numeric WSID")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{WSID: 1, Password: "pw", BaseURL: "http://x", RequestMode: "GET"}
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty mode defaults to GET", mutate: func(c *Config) { c.RequestMode = "" }},
		{name: "missing wsid", mutate: func(c *Config) { c.WSID = 0 }, wantErr: "missing CasJobs WSID"},
		{name: "missing password", mutate: func(c *Config) { c.Password = "" }, wantErr: "missing CasJobs password"},
		{name: "missing base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: "missing CasJobs base URL"},
		{
			name:    "bad mode",
			mutate:  func(c *Config) { c.RequestMode = "PUT" },
			wantErr: "invalid request mode PUT: must be GET or POST",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if _, ok := err.(InvalidConfigError); !ok {
				t.Fatalf("want InvalidConfigError, got %T: %v", err, err)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("have %q want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	logger, err := Log{Level: "warn", Format: "json"}.Logger()
	if err != nil {
		t.Fatal(err)
	}
	if logger.Level != logrus.WarnLevel {
		t.Errorf("level = %v", logger.Level)
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T", logger.Formatter)
	}

	if _, err := (Log{Level: "loud"}).Logger(); err == nil {
		t.Error("expected an error for an unknown level")
	}
	if _, err := (Log{Format: "xml"}).Logger(); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
