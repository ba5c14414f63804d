package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/CTAG07/charkov/pkg/markov"
	"github.com/CTAG07/charkov/pkg/trie"
	"github.com/midbel/cli"
	"github.com/natefinch/atomic"
)

type GenerateCommand struct {
	File        string
	Corpus      string
	Encoding    string
	Order       int
	Length      int
	OutFile     string
	Interactive bool
	Seed        *uint64
}

func (c GenerateCommand) Run(args []string) error {
	set := cli.NewFlagSet("generate")
	set.StringVar(&c.File, "f", "", "read source text from file")
	set.StringVar(&c.Corpus, "c", "", "read source text from the stored corpus entry")
	set.StringVar(&c.Encoding, "e", "", "encoding of the source file")
	set.IntVar(&c.Order, "k", -1, "kGram: number of context characters")
	set.IntVar(&c.Length, "n", 0, "number of characters to generate")
	set.StringVar(&c.OutFile, "o", "", "write generated text to output file")
	set.BoolVar(&c.Interactive, "i", false, "ask for file, kGram and length")
	set.Func("seed", "seed the random source for reproducible output", func(str string) error {
		seed, err := strconv.ParseUint(str, 10, 64)
		if err == nil {
			c.Seed = &seed
		}
		return err
	})
	if err := set.Parse(args); err != nil {
		return err
	}
	if c.File == "" && set.NArg() > 0 {
		c.File = set.Arg(0)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if c.Interactive || (c.File == "" && c.Corpus == "") {
		return runInteractive(ctx, a, os.Stdin, os.Stdout, c.Seed)
	}
	return c.generate(ctx, a)
}

func (c GenerateCommand) generate(ctx context.Context, a *app) error {
	if c.Order < 0 {
		c.Order = a.config.DefaultOrder
	}
	if err := a.checkOrder(c.Order); err != nil {
		return err
	}
	if c.Length == 0 {
		c.Length = a.config.DefaultLength
	}
	if c.Length < 1 {
		return fmt.Errorf("invalid output length %d", c.Length)
	}

	src := source{corpusName: c.Corpus, file: c.File, encoding: c.Encoding}
	text, err := a.loadText(ctx, src)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", src, err)
	}
	t, err := a.buildTrie(ctx, text, c.Order)
	if err != nil {
		var short *trie.InsufficientInputError
		if errors.As(err, &short) {
			return fmt.Errorf("text is shorter than kGram requires: %w", err)
		}
		return err
	}

	g := markov.NewGenerator(t, a.generatorOptions(c.Seed)...)

	var output string
	if c.OutFile != "" {
		if output, err = g.Generate(ctx, c.Length); err != nil {
			return err
		}
		if err = atomic.WriteFile(c.OutFile, strings.NewReader(output)); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.OutFile, err)
		}
	} else {
		var sb strings.Builder
		if _, err = g.GenerateTo(ctx, io.MultiWriter(os.Stdout, &sb), c.Length); err != nil {
			return err
		}
		fmt.Println()
		output = sb.String()
	}

	a.recordRun(ctx, src.String(), c.Order, c.Seed, output, c.Length)
	return nil
}
