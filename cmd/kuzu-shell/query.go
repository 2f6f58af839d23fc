package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	kuzu "github.com/semihalev/go-kuzu"
)

var queryParams []string

var queryCmd = &cobra.Command{
	Use:   "query <cypher>",
	Short: "Run a query and print its results",
	Long: `Run one or more ';' separated Cypher statements and print every result.

Parameters are passed as name=value pairs and bound as strings, integers,
floats or booleans, whichever parses first:

  kuzu-shell query -p id=42 'MATCH (p:Person) WHERE p.id = $id RETURN p.name'`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil, "Query parameter as name=value (repeatable)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	params, err := parseParams(queryParams)
	if err != nil {
		return err
	}
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	conn, err := db.Connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	var res *kuzu.QueryResult
	if len(params) > 0 {
		res, err = conn.QueryContext(cmd.Context(), args[0], params)
	} else {
		res, err = conn.QueryContext(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}
	defer res.Close()

	out := cmd.OutOrStdout()
	for r := res; ; {
		if err := printResult(out, r, settings.GetString(keyOutput)); err != nil {
			return err
		}
		if !r.HasNextResult() {
			return nil
		}
		if r, err = r.NextResult(); err != nil {
			return err
		}
	}
}

func printResult(w io.Writer, res *kuzu.QueryResult, format string) error {
	names, err := res.ColumnNames()
	if err != nil {
		return err
	}
	var records []map[string]any
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if format != "json" && len(names) > 0 {
		fmt.Fprintln(tw, strings.Join(names, "\t"))
	}
	for row, err := range res.Rows() {
		if err != nil {
			return err
		}
		values, err := row.Values()
		if err != nil {
			return err
		}
		if format == "json" {
			rec := make(map[string]any, len(names))
			for i, n := range names {
				rec[n] = values[i]
			}
			records = append(records, rec)
			continue
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return tw.Flush()
}
