package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/CTAG07/charkov/pkg/trie"
	"github.com/midbel/cli"
)

type InspectCommand struct {
	File     string
	Corpus   string
	Encoding string
	Order    int
	Top      int
}

func (c InspectCommand) Run(args []string) error {
	set := cli.NewFlagSet("inspect")
	set.StringVar(&c.File, "f", "", "read source text from file")
	set.StringVar(&c.Corpus, "c", "", "read source text from the stored corpus entry")
	set.StringVar(&c.Encoding, "e", "", "encoding of the source file")
	set.IntVar(&c.Order, "k", -1, "kGram: number of context characters")
	set.IntVar(&c.Top, "top", 10, "number of most frequent prefixes to list")
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

	if c.Order < 0 {
		c.Order = a.config.DefaultOrder
	}
	if err = a.checkOrder(c.Order); err != nil {
		return err
	}

	ctx := context.Background()
	text, err := a.loadText(ctx, source{corpusName: c.Corpus, file: c.File, encoding: c.Encoding})
	if err != nil {
		return err
	}
	t, err := a.buildTrie(ctx, text, c.Order)
	if err != nil {
		return err
	}

	s := t.Stats()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "order\t%d\n", s.Order)
	fmt.Fprintf(w, "characters\t%d\n", s.Total)
	fmt.Fprintf(w, "alphabet\t%d\n", s.Alphabet)
	fmt.Fprintf(w, "nodes\t%d\n", s.Nodes)
	fmt.Fprintf(w, "distinct prefixes\t%d\n", s.DistinctPaths)
	fmt.Fprintf(w, "max depth\t%d\n", s.MaxDepth)
	if c.Top > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "PREFIX\tCOUNT")
		for _, p := range topPrefixes(t, c.Top) {
			fmt.Fprintf(w, "%s\t%d\n", strconv.Quote(p.text), p.count)
		}
	}
	return w.Flush()
}

type prefixCount struct {
	text  string
	count int
}

// topPrefixes returns the n most frequent full-length prefixes of t. Ties
// keep trie order.
func topPrefixes(t *trie.Trie, n int) []prefixCount {
	var all []prefixCount
	t.Walk(func(path []rune, node *trie.Node) bool {
		if node.Depth() == t.Order()+1 {
			all = append(all, prefixCount{text: string(path), count: node.Count()})
			return false
		}
		return true
	})
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].count > all[j].count
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}
