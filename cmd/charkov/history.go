package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/midbel/cli"
)

type HistoryCommand struct {
	Limit int
	Full  bool
}

func (c HistoryCommand) Run(args []string) error {
	set := cli.NewFlagSet("history")
	set.IntVar(&c.Limit, "n", 20, "number of runs to show (0 for all)")
	set.BoolVar(&c.Full, "full", false, "print the complete output of every run")
	if err := set.Parse(args); err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.Store()
	if err != nil {
		return err
	}
	runs, err := store.Runs(context.Background(), c.Limit)
	if err != nil {
		return err
	}

	if c.Full {
		for _, r := range runs {
			fmt.Printf("#%d %s k=%d n=%d\n%s\n\n", r.Id, r.Source, r.Order, r.Length, r.Output)
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tSOURCE\tK\tN\tSEED\tOUTPUT")
	for _, r := range runs {
		seed := "-"
		if r.Seeded {
			seed = fmt.Sprint(r.Seed)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\t%q\n", r.Id, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source, r.Order, r.Length, seed, preview(r.Output, 40))
	}
	return w.Flush()
}

// preview cuts s to at most n characters.
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
