package output

import (
	"testing"
)

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		opts     []Option
		wantType string
		wantWide bool
	}{
		{name: "table", format: FormatTable, wantType: "*output.TableFormatter"},
		{name: "wide", format: FormatWide, wantType: "*output.TableFormatter", wantWide: true},
		{name: "json", format: FormatJSON, wantType: "*output.JSONFormatter"},
		{name: "yaml", format: FormatYAML, wantType: "*output.YAMLFormatter"},
		{name: "unknown falls back to table", format: "xml", wantType: "*output.TableFormatter"},
		{name: "table with wide option", format: FormatTable, opts: []Option{WithWide(true)}, wantType: "*output.TableFormatter", wantWide: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormatter(tt.format, tt.opts...)
			switch v := f.(type) {
			case *TableFormatter:
				if tt.wantType != "*output.TableFormatter" {
					t.Fatalf("got %T, want %s", f, tt.wantType)
				}
				if v.options.Wide != tt.wantWide {
					t.Errorf("Wide = %v, want %v", v.options.Wide, tt.wantWide)
				}
			case *JSONFormatter:
				if tt.wantType != "*output.JSONFormatter" {
					t.Fatalf("got %T, want %s", f, tt.wantType)
				}
			case *YAMLFormatter:
				if tt.wantType != "*output.YAMLFormatter" {
					t.Fatalf("got %T, want %s", f, tt.wantType)
				}
			default:
				t.Fatalf("unexpected formatter %T", f)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	opts := &Options{}
	for _, opt := range []Option{WithNoColor(true), WithNoHeaders(true), WithWide(true), WithMaxValueWidth(20)} {
		opt(opts)
	}

	if !opts.NoColor || !opts.NoHeaders || !opts.Wide || opts.MaxValueWidth != 20 {
		t.Errorf("options not applied: %+v", opts)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "wide", want: FormatWide},
		{in: "json", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
