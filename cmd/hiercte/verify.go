package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/pthm/hiercte/internal/cli"
	"github.com/pthm/hiercte/internal/report"
)

var (
	verifyDB      string
	verifyExplain bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [files...]",
	Short: "Check converted SQL",
	Long: `Check converted scripts before they are shipped.

Every statement is parsed with the PostgreSQL grammar and each recursive CTE
is checked for aligned anchor and recursive members. With --db, statements
are also planned with EXPLAIN against the database, which resolves tables,
columns and functions without running anything.`,
	Example: `  # Lint a converted script
  hiercte verify converted.sql

  # Also plan each statement against a database
  hiercte verify converted.sql --db postgres://localhost/mydb`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scripts, err := readScripts(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		opts := []report.VerifyOption{report.WithLint(cfg.Verify.Lint)}

		explain := resolveBool(verifyExplain, verifyDB != "", cfg.Verify.Explain)
		if explain {
			dsn, err := resolveDSN(verifyDB)
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			opts = append(opts, report.WithExplain(db))
		}

		return runVerify(cmd.Context(), scripts, report.NewVerifier(opts...))
	},
}

func init() {
	f := verifyCmd.Flags()
	f.StringVar(&verifyDB, "db", "", "database URL (enables EXPLAIN)")
	f.BoolVar(&verifyExplain, "explain", false, "plan statements against the configured database")
}

// resolveDSN returns the database URL: flag > config.
func resolveDSN(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return "", cli.ConfigError("database configuration", err)
	}
	if dsn == "" {
		return "", cli.ConfigError("database URL is required (use --db or set in config)", nil)
	}
	return dsn, nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, cli.DBConnectError("connecting to database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, cli.DBConnectError("connecting to database", err)
	}
	return db, nil
}

func runVerify(ctx context.Context, scripts []script, v *report.Verifier) error {
	var rep report.Report
	for _, s := range scripts {
		if err := v.Run(ctx, &rep, s.Name, s.Statements); err != nil {
			return cli.GeneralError("verification interrupted", err)
		}
	}

	if !quiet || rep.HasErrors() {
		if !quiet {
			fmt.Println("hiercte verify")
		}
		rep.Print(os.Stdout, verbose > 0)
	}

	if rep.HasErrors() {
		return cli.GeneralError(fmt.Sprintf("%d statement(s) failed verification", rep.Errors), nil)
	}
	return nil
}
