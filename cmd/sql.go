package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/fsutil"
	"github.com/axekit/axe/internal/logging"
	"github.com/axekit/axe/internal/mysql"
	"github.com/axekit/axe/internal/ui/console"
)

func init() {
	var iniPath, dbName string
	sqlCmd := &cobra.Command{
		Use:   "sql",
		Short: "Run statements and scripts against MySQL",
	}
	sqlCmd.PersistentFlags().StringVar(&iniPath, "ini", "", "read the connection from the [mysql] section of this INI file instead of the config")
	sqlCmd.PersistentFlags().StringVar(&dbName, "db", "", "database to use (overrides the configured one)")

	open := func(ctx context.Context) (*mysql.DB, error) {
		conn, db := mysql.FromConfig(config.Get().MySQL)
		if iniPath != "" {
			var err error
			conn, db, err = mysql.LoadConnection(fsutil.ExpandHome(iniPath))
			if err != nil {
				return nil, err
			}
		}
		if dbName != "" {
			db = dbName
		}
		return mysql.Open(ctx, conn, db)
	}

	execCmd := &cobra.Command{
		Use:   "exec <statement|file.sql>...",
		Short: "Execute statements or SQL script files in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			for _, a := range args {
				if strings.HasSuffix(strings.ToLower(a), ".sql") && fsutil.IsFile(a) {
					err = db.ExecFile(cmd.Context(), a)
				} else {
					err = db.Exec(cmd.Context(), a)
				}
				if err != nil {
					return err
				}
			}
			logging.Success("done")
			return nil
		},
	}

	queryCmd := &cobra.Command{
		Use:   "query <statement>",
		Short: "Run a query and print the result set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			cols, rows, err := db.Query(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), console.RenderQuery(cols, rows))
			return nil
		},
	}

	sqlCmd.AddCommand(execCmd, queryCmd)
	rootCmd.AddCommand(sqlCmd)
}
