package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"divegraph/internal/dive"
	"divegraph/internal/divelog"
)

func promptLog() *divelog.Log {
	return &divelog.Log{Entries: []divelog.Entry{
		{Index: 0, Summary: dive.Summary{MaxDepth: 12.7}},
		{Index: 1, Summary: dive.Summary{MaxDepth: 31.2}},
	}}
}

func TestPromptDiveIndex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
		retries int
	}{
		{name: "first answer", input: "1\n", want: 1},
		{name: "whitespace", input: "  0 \n", want: 0},
		{name: "retry after junk", input: "deep\n5\n-1\n1\n", want: 1, retries: 3},
		{name: "explicit sign", input: "+1\n1\n", want: 1, retries: 1},
		{name: "leading zero", input: "01\n00\n0\n", want: 0, retries: 2},
		{name: "eof", input: "", wantErr: errNoSelection},
		{name: "eof after junk", input: "x\n", wantErr: errNoSelection, retries: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptDiveIndex(strings.NewReader(tt.input), &out, promptLog())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil || got != tt.want {
				t.Fatalf("got %d, %v; want %d", got, err, tt.want)
			}
			text := out.String()
			if !strings.HasPrefix(text, "0. 12m\n1. 31m\n") {
				t.Fatalf("unexpected listing: %q", text)
			}
			if n := strings.Count(text, "not a valid choice"); n != tt.retries {
				t.Fatalf("retries = %d, want %d", n, tt.retries)
			}
		})
	}
}

func TestPromptDiveIndexEmptyLog(t *testing.T) {
	_, err := promptDiveIndex(strings.NewReader("0\n"), &bytes.Buffer{}, &divelog.Log{})
	if !errors.Is(err, divelog.ErrNoDives) {
		t.Fatalf("expected ErrNoDives, got %v", err)
	}
}
