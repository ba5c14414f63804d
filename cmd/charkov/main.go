package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/midbel/cli"
)

// errFail is returned by commands that already reported their failure.
var errFail = errors.New("fail")

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var configPath = "./charkov.json"

var (
	summary = "charkov builds a character-level Markov model from a text and generates new text from it"
	help    = `
charkov [-config file] <command> [<args>]

Without a source file or corpus name, "generate" asks for one interactively,
along with the kGram (order) and the output length.
`
)

func main() {
	var (
		set  = cli.NewFlagSet("charkov")
		root = prepare()
	)
	set.StringVar(&configPath, "config", configPath, "path to the configuration file")
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	args := set.Args()
	if len(args) == 0 {
		args = []string{"generate"}
	}
	err := root.Execute(args)
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		if !errors.Is(err, errFail) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"generate"}, &generateCmd)
	root.Register([]string{"corpus", "import"}, &corpusImportCmd)
	root.Register([]string{"corpus", "list"}, &corpusListCmd)
	root.Register([]string{"corpus", "remove"}, &corpusRemoveCmd)
	root.Register([]string{"history"}, &historyCmd)
	root.Register([]string{"inspect"}, &inspectCmd)
	root.Register([]string{"serve"}, &serveCmd)
	root.Register([]string{"version"}, &versionCmd)

	return root
}

var generateCmd = cli.Command{
	Name:    "generate",
	Alias:   []string{"gen", "run"},
	Summary: "generate text from a file or a stored corpus",
	Usage:   "generate [-f file | -c corpus] [-k order] [-n length] [-o file] [-seed n] [-e encoding] [-i]",
	Handler: &GenerateCommand{},
}

var corpusImportCmd = cli.Command{
	Name:    "import",
	Alias:   []string{"add"},
	Summary: "store one or more text files in the corpus database",
	Usage:   "corpus import [-e encoding] [-name name] <file> [<file>...]",
	Handler: &CorpusImportCommand{},
}

var corpusListCmd = cli.Command{
	Name:    "list",
	Alias:   []string{"ls"},
	Summary: "list stored texts",
	Usage:   "corpus list",
	Handler: &CorpusListCommand{},
}

var corpusRemoveCmd = cli.Command{
	Name:    "remove",
	Alias:   []string{"rm"},
	Summary: "remove a stored text",
	Usage:   "corpus remove <name> [<name>...]",
	Handler: &CorpusRemoveCommand{},
}

var historyCmd = cli.Command{
	Name:    "history",
	Alias:   []string{"runs"},
	Summary: "show recent generation runs",
	Usage:   "history [-n limit] [-full]",
	Handler: &HistoryCommand{},
}

var inspectCmd = cli.Command{
	Name:    "inspect",
	Alias:   []string{"stats"},
	Summary: "print the shape of the trie built for a text",
	Usage:   "inspect [-f file | -c corpus] [-k order] [-e encoding] [-top n]",
	Handler: &InspectCommand{},
}

var serveCmd = cli.Command{
	Name:    "serve",
	Summary: "serve generated text over HTTP",
	Usage:   "serve [-addr address]",
	Handler: &ServeCommand{},
}

var versionCmd = cli.Command{
	Name:    "version",
	Summary: "print version information",
	Usage:   "version",
	Handler: &VersionCommand{},
}

type VersionCommand struct{}

func (c VersionCommand) Run(args []string) error {
	fmt.Printf("charkov %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	return nil
}
