package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CTAG07/charkov/pkg/corpus"
	"github.com/CTAG07/charkov/pkg/markov"
	"github.com/CTAG07/charkov/pkg/trie"
)

// runInteractive is the console driver: pick a text file from the text
// directory, then a kGram and an output length, then print the generated
// text. Bad input ends the session with a message and errFail.
func runInteractive(ctx context.Context, a *app, in io.Reader, out io.Writer, seed *uint64) error {
	files, err := corpus.ListTextFiles(a.config.TextDir)
	if err != nil {
		return fmt.Errorf("failed to list text files: %w", err)
	}

	fmt.Fprintln(out, "Choose the number of the text file to read from:")
	for i, file := range files {
		fmt.Fprintf(out, "\t%d. %s\n", i+1, filepath.Base(file))
	}

	scanner := bufio.NewScanner(in)
	choice, ok := askNumber(scanner, out, "Selection: ", 1, len(files))
	if !ok {
		fmt.Fprintln(out, "Bad file choice, exiting...")
		return errFail
	}
	file := files[choice-1]

	order, ok := askNumber(scanner, out, "Enter kGram: ", 0, a.config.MaxOrder)
	if !ok {
		fmt.Fprintf(out, "Invalid kGram entered (0 <= kGram <= %d), exiting...\n", a.config.MaxOrder)
		return errFail
	}

	length, ok := askNumber(scanner, out, "Enter output length: ", 1, math.MaxInt)
	if !ok {
		fmt.Fprintln(out, "Invalid output length entered, exiting...")
		return errFail
	}

	fmt.Fprint(out, "\nComputing Markov chain...\n\n")

	text, err := corpus.ReadTextFile(file, a.config.DefaultEncoding)
	if err != nil {
		a.logger.DebugContext(ctx, "Failed to read text file", "file", file, "error", err)
		fmt.Fprintln(out, "Error reading file, exiting...")
		return errFail
	}
	t, err := a.buildTrie(ctx, text, order)
	if err != nil {
		var short *trie.InsufficientInputError
		if errors.As(err, &short) {
			fmt.Fprintln(out, "Text file is shorter than kGram requires, exiting...")
			return errFail
		}
		return err
	}

	fmt.Fprint(out, "Generating results...\n\n")

	var sb strings.Builder
	g := markov.NewGenerator(t, a.generatorOptions(seed)...)
	if _, err = g.GenerateTo(ctx, io.MultiWriter(out, &sb), length); err != nil {
		return err
	}

	fmt.Fprint(out, "\n\nProgram has finished.\n")

	a.recordRun(ctx, file, order, seed, sb.String(), length)
	return nil
}

// askNumber prints prompt and reads one line holding a number in [min, max].
func askNumber(scanner *bufio.Scanner, out io.Writer, prompt string, min, max int) (int, bool) {
	fmt.Fprint(out, prompt)
	if !scanner.Scan() {
		return 0, false
	}
	return parseBoundedInt(strings.TrimRight(scanner.Text(), "\r"), min, max)
}

// parseBoundedInt accepts only plain decimal digits, so signs, spaces and
// empty input are all rejected.
func parseBoundedInt(str string, min, max int) (int, bool) {
	if str == "" {
		return 0, false
	}
	for _, r := range str {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(str)
	if err != nil || n < min || n > max {
		return 0, false
	}
	return n, true
}
