package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pthm/hiercte/internal/cli"
	"github.com/pthm/hiercte/pkg/parser"
)

const stdinName = "<stdin>"

// script is one input file split into statements.
type script struct {
	Name       string
	Statements []string
}

// readScripts loads every named file, or standard input when there are none
// or the name is "-".
func readScripts(args []string, stdin io.Reader) ([]script, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	scripts := make([]script, 0, len(args))
	for _, name := range args {
		var (
			data []byte
			err  error
		)
		if name == "-" {
			name = stdinName
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, cli.GeneralError(fmt.Sprintf("reading %s", name), err)
		}
		scripts = append(scripts, script{
			Name:       name,
			Statements: parser.SplitStatements(string(data)),
		})
	}
	return scripts, nil
}
