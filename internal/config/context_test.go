package config

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestContext(t *testing.T) {
	if got := FromContext(context.Background()); got != Defaults() {
		t.Errorf("empty context should yield defaults, got %+v", got)
	}

	want := Settings{Parallel: 9, Output: "json"}
	ctx := NewContext(context.Background(), want)
	if got := FromContext(ctx); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestApplyFlags(t *testing.T) {
	newFlags := func() *pflag.FlagSet {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.IntP("parallel", "p", 0, "")
		flags.Duration("timeout", 0, "")
		flags.StringP("output", "o", "", "")
		flags.String("progress", "", "")
		flags.Bool("fail-fast", false, "")
		flags.Bool("no-color", false, "")
		return flags
	}
	base := Settings{Parallel: 4, Timeout: time.Minute, Output: "table", Progress: "bar", FailFast: true}

	tests := []struct {
		name string
		args []string
		want Settings
	}{
		{
			name: "no flags keeps settings",
			args: nil,
			want: base,
		},
		{
			name: "explicit values win",
			args: []string{"-p", "2", "--timeout", "5s", "-o", "wide", "--progress", "silent", "--no-color"},
			want: Settings{Parallel: 2, Timeout: 5 * time.Second, Output: "wide", Progress: "silent", FailFast: true, NoColor: true},
		},
		{
			name: "booleans can be switched off",
			args: []string{"--fail-fast=false"},
			want: Settings{Parallel: 4, Timeout: time.Minute, Output: "table", Progress: "bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newFlags()
			if err := flags.Parse(tt.args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}
			got, err := ApplyFlags(base, flags)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyFlags_MissingFlags(t *testing.T) {
	flags := pflag.NewFlagSet("empty", pflag.ContinueOnError)
	got, err := ApplyFlags(Defaults(), flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Defaults() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestSettings_Map(t *testing.T) {
	m := Settings{Parallel: 3, Timeout: 2 * time.Second, FailFast: true}.Map()
	if m["parallel"] != 3 || m["timeout"] != "2s" || m["fail-fast"] != true || m["output"] != "" {
		t.Errorf("unexpected map %v", m)
	}
	if len(m) != 6 {
		t.Errorf("got %d keys, want 6", len(m))
	}
}
