package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/CTAG07/charkov/pkg/corpus"
	"github.com/midbel/cli"
)

type CorpusImportCommand struct {
	Encoding string
	Name     string
}

func (c CorpusImportCommand) Run(args []string) error {
	set := cli.NewFlagSet("import")
	set.StringVar(&c.Encoding, "e", "", "encoding of the files")
	set.StringVar(&c.Name, "name", "", "store under this name (single file only)")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() == 0 {
		return fmt.Errorf("no file given")
	}
	if c.Name != "" && set.NArg() > 1 {
		return fmt.Errorf("-name can only be used with a single file")
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
	if c.Encoding == "" {
		c.Encoding = a.config.DefaultEncoding
	}
	enc, err := corpus.NormalizeEncoding(c.Encoding)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, file := range set.Args() {
		text, err := corpus.ReadTextFile(file, enc)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", file, err)
		}
		name := c.Name
		if name == "" {
			name = corpus.TextName(file)
		}
		info, err := store.PutText(ctx, name, enc, text)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d characters\n", info.Name, info.Length)
	}
	return nil
}

type CorpusListCommand struct{}

func (c CorpusListCommand) Run(args []string) error {
	set := cli.NewFlagSet("list")
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
	texts, err := store.ListTexts(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENCODING\tLENGTH\tSTORED")
	for _, t := range texts {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.Name, t.Encoding, t.Length, t.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

type CorpusRemoveCommand struct{}

func (c CorpusRemoveCommand) Run(args []string) error {
	set := cli.NewFlagSet("remove")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() == 0 {
		return fmt.Errorf("no name given")
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
	ctx := context.Background()
	for _, name := range set.Args() {
		if err := store.RemoveText(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
