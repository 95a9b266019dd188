package parser

import (
	"strings"

	"github.com/pthm/hiercte/internal/sqltext"
)

// StripComments removes SQL line and block comments outside literals.
func StripComments(script string) string {
	return sqltext.StripComments(script)
}

// SplitStatements splits a script into statements. Statements end at a
// top-level semicolon or at a line holding only "/" (the SQL*Plus
// terminator). Comments are removed and empty statements dropped.
func SplitStatements(script string) []string {
	lines := strings.Split(sqltext.StripComments(script), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "/" {
			lines[i] = ";"
		}
	}
	return sqltext.SplitTopLevel(strings.Join(lines, "\n"), ';')
}
