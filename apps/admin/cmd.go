package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/academia/core/course"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sql.DB
	svc      *course.Service
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) against the database")
	fmt.Fprintln(cli.out, "  list [-search KEYWORD] - list the stored drafts")
	fmt.Fprintln(cli.out, "  export -id ID - print the stored snapshot of a draft")
	fmt.Fprintln(cli.out, "  import -file PATH [-title TITLE] - create a draft from a snapshot file")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
	listSearch := listCmd.String("search", "", "Only list drafts whose title contains the keyword.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportID := exportCmd.String("id", "", "The draft's ID.")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "Path to the snapshot JSON file.")
	importTitle := importCmd.String("title", "", "The draft's title. Defaults to the snapshot's general title.")

	for _, cmd := range []*flag.FlagSet{listCmd, exportCmd, importCmd} {
		cmd.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.list(*listSearch)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *exportID == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportID, isTerminalFunc(int(os.Stdout.Fd())))
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importSnapshot(*importFile, *importTitle)
	default:
		cli.printUsage()
		return errHelp
	}
}
