package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/athebyme/text-similarity/pkg/config"
)

func runCompare(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newCompareCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompareCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"identical", []string{"the cat", "the cat"}, "1"},
		{"disjoint", []string{"cat dog", "fish bird"}, "0"},
		{"prefix", []string{"hello", "hello world"}, "0.75"},
		{"other metric", []string{"--metric", "jaro", "abc", "abc"}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCompare(t, tt.args...)
			if err != nil {
				t.Fatalf("compare error = %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompareCmdExplain(t *testing.T) {
	out, err := runCompare(t, "--explain", "the cat sat", "the cat ran")
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}

	var res struct {
		Metric  string `json:"metric"`
		Outcome string `json:"outcome"`
		Levels  []struct {
			N int `json:"n"`
		} `json:"levels"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if res.Metric != "ngram" || res.Outcome != "blended" || len(res.Levels) != 3 {
		t.Errorf("unexpected output %+v", res)
	}
}

func TestCompareCmdErrors(t *testing.T) {
	if _, err := runCompare(t, "only one"); err == nil {
		t.Error("expected an error for a single argument")
	}
	if _, err := runCompare(t, "--metric", "cosine", "a", "b"); err == nil {
		t.Error("expected an error for an unknown metric")
	}
}

func TestNewRegistry(t *testing.T) {
	cfg := config.Default().Similarity
	if _, err := newRegistry(cfg); err != nil {
		t.Fatalf("newRegistry() error = %v", err)
	}

	cfg.EmptyLevels = "skip"
	if _, err := newRegistry(cfg); err == nil {
		t.Error("expected an error for an unknown empty level policy")
	}
}
