package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTextFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunInteractive(t *testing.T) {
	a := setupTestApp(t)
	writeTextFile(t, a.config.TextDir, "abab.txt", "abab")
	writeTextFile(t, a.config.TextDir, "zz.txt", "zzzz")

	var out strings.Builder
	seed := uint64(3)
	err := runInteractive(context.Background(), a, strings.NewReader("1\n1\n6\n"), &out, &seed)
	if err != nil {
		t.Fatalf("runInteractive failed: %v", err)
	}

	transcript := out.String()
	for _, want := range []string{
		"Choose the number of the text file to read from:\n\t1. abab.txt\n\t2. zz.txt\n",
		"Selection: Enter kGram: Enter output length: ",
		"\nComputing Markov chain...\n\n",
		"Generating results...\n\n",
		"\n\nProgram has finished.\n",
	} {
		if !strings.Contains(transcript, want) {
			t.Errorf("transcript missing %q:\n%s", want, transcript)
		}
	}

	_, rest, _ := strings.Cut(transcript, "Generating results...\n\n")
	generated, _, _ := strings.Cut(rest, "\n\nProgram has finished.")
	if generated != "ababab" && generated != "bababa" {
		t.Errorf("expected alternating output, got %q", generated)
	}

	runs, err := a.store.Runs(context.Background(), 0)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Output != generated || runs[0].Order != 1 || !runs[0].Seeded || runs[0].Seed != 3 {
		t.Errorf("run not recorded as expected: %+v", runs)
	}
}

func TestRunInteractiveBadInput(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		message string
	}{
		{"file choice zero", "0\n", "Bad file choice, exiting..."},
		{"file choice out of range", "3\n", "Bad file choice, exiting..."},
		{"file choice not a number", "one\n", "Bad file choice, exiting..."},
		{"no input", "", "Bad file choice, exiting..."},
		{"kGram too large", "1\n9\n", "Invalid kGram entered (0 <= kGram <= 8), exiting..."},
		{"kGram negative", "1\n-1\n", "Invalid kGram entered (0 <= kGram <= 8), exiting..."},
		{"length zero", "1\n1\n0\n", "Invalid output length entered, exiting..."},
		{"length empty", "1\n1\n\n", "Invalid output length entered, exiting..."},
		{"text too short", "1\n3\n5\n", "Text file is shorter than kGram requires, exiting..."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := setupTestApp(t)
			writeTextFile(t, a.config.TextDir, "abab.txt", "abab")
			writeTextFile(t, a.config.TextDir, "ab.txt", "ab")
			// Listed in name order: 1. ab.txt, 2. abab.txt

			var out strings.Builder
			err := runInteractive(context.Background(), a, strings.NewReader(tc.input), &out, nil)
			if !errors.Is(err, errFail) {
				t.Fatalf("expected errFail, got %v", err)
			}
			if !strings.Contains(out.String(), tc.message) {
				t.Errorf("expected %q in output:\n%s", tc.message, out.String())
			}
		})
	}
}

func TestParseBoundedInt(t *testing.T) {
	testCases := []struct {
		input    string
		min, max int
		want     int
		ok       bool
	}{
		{"5", 0, 8, 5, true},
		{"0", 0, 8, 0, true},
		{"8", 0, 8, 8, true},
		{"9", 0, 8, 0, false},
		{"", 0, 8, 0, false},
		{"+3", 0, 8, 0, false},
		{" 3", 0, 8, 0, false},
		{"3.0", 0, 8, 0, false},
		{"007", 1, 10, 7, true},
		{"99999999999999999999999", 1, 1 << 62, 0, false},
	}
	for _, tc := range testCases {
		got, ok := parseBoundedInt(tc.input, tc.min, tc.max)
		if got != tc.want || ok != tc.ok {
			t.Errorf("parseBoundedInt(%q, %d, %d) = (%d, %v), want (%d, %v)", tc.input, tc.min, tc.max, got, ok, tc.want, tc.ok)
		}
	}
}
