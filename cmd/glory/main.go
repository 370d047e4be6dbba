// Command glory is a terminal client for the inventory admin backend. It
// drives the same listing surface as the web table: search, sort, trusted
// filters, and infinite paging.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/hkennandya-dev/morning-glory-test-go/pkg/datatable"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	client    *datatable.Client
)

func main() {
	root := &cobra.Command{
		Use:   "glory",
		Short: "Inventory admin client (category, item, stock)",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client = datatable.NewClient(serverURL)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "backend base URL")

	root.AddCommand(listCmd(), getCmd(), createCmd(), updateCmd(), deleteCmd(), recoverCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func tableFor(entity string) (datatable.Options, error) {
	opts, ok := datatable.Tables()[entity]
	if !ok {
		return datatable.Options{}, fmt.Errorf("unknown entity %q (category_item, item, stock_item)", entity)
	}
	return opts, nil
}

func listCmd() *cobra.Command {
	var (
		search   string
		order    string
		filters  []string
		pageSize int
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "List records with search, sort, and filters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := tableFor(args[0])
			if err != nil {
				return err
			}
			ctrl := datatable.NewController(opts, client)
			if search != "" {
				ctrl.SetSearch(search)
				ctrl.Confirm()
			}
			if order != "" {
				ctrl.SetOrder(order)
			}
			if cmd.Flags().Changed("filter") {
				ctrl.SetFilter(filters)
			}
			if pageSize > 0 {
				ctrl.SetPageSize(pageSize)
			}

			ctx := context.Background()
			if err := ctrl.Refresh(ctx); err != nil {
				return err
			}
			for all && ctrl.HasNext() {
				if err := ctrl.LoadMore(ctx); err != nil {
					return err
				}
			}
			if err := printJSON(ctrl.Rows()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%d of %d rows\n", len(ctrl.Rows()), ctrl.Total())
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search term")
	cmd.Flags().StringVar(&order, "order", "", "sort fragment, e.g. order_by=item.name&order_type=asc")
	cmd.Flags().StringSliceVar(&filters, "filter", nil, "filter expressions to select")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page")
	cmd.Flags().BoolVar(&all, "all", false, "follow is_next until every page is loaded")
	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <entity> <id>",
		Short: "Fetch one record by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := tableFor(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}
			row, err := client.Get(context.Background(), opts.BasePath, id)
			if err != nil {
				return err
			}
			return printJSON(row)
		},
	}
}

func createCmd() *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "create <entity>",
		Short: "Create a record from a JSON payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := tableFor(args[0])
			if err != nil {
				return err
			}
			var body map[string]any
			if err := json.Unmarshal([]byte(data), &body); err != nil {
				return fmt.Errorf("invalid --data payload: %w", err)
			}
			id, err := client.Create(context.Background(), opts.BasePath, body)
			if err != nil {
				return err
			}
			fmt.Printf("created id %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON payload")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func updateCmd() *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update <entity> <id>",
		Short: "Apply a partial update to a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := tableFor(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}
			var body map[string]any
			if err := json.Unmarshal([]byte(data), &body); err != nil {
				return fmt.Errorf("invalid --data payload: %w", err)
			}
			if err := client.Update(context.Background(), opts.BasePath, id, body); err != nil {
				return err
			}
			fmt.Println("updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON payload")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity> <id>...",
		Short: "Soft-delete records; deleting again removes them permanently",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := tableFor(args[0])
			if err != nil {
				return err
			}
			ids := make([]int64, 0, len(args)-1)
			for _, a := range args[1:] {
				id, err := strconv.ParseInt(a, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid id %q", a)
				}
				ids = append(ids, id)
			}
			ctx := context.Background()
			if len(ids) == 1 {
				if err := client.Delete(ctx, opts.BasePath, ids[0]); err != nil {
					return err
				}
			} else if err := client.DeleteBulk(ctx, opts.BasePath, ids); err != nil {
				return err
			}
			fmt.Printf("deleted %d record(s)\n", len(ids))
			return nil
		},
	}
}

func recoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recover <entity> <id>",
		Short: "Reverse a soft delete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := tableFor(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}
			if err := client.Recover(context.Background(), opts.BasePath, id); err != nil {
				return err
			}
			fmt.Println("recovered")
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
