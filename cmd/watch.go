package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketscope/radar-cli/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage the watchlist of tracked (country, city) pairs",
}

var watchAddCmd = &cobra.Command{
	Use:   "add <iso2> <city>",
	Short: "Add a city to the watchlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		entry, err := st.Add(ctx, strings.ToUpper(args[0]), args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Watching %s / %s (%s)\n", entry.Country, entry.City, entry.ID)
		return nil
	},
}

var watchRemoveCmd = &cobra.Command{
	Use:   "remove <iso2> <city>",
	Short: "Remove a city from the watchlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		removed, err := st.Remove(ctx, strings.ToUpper(args[0]), args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d entries\n", removed)
		return nil
	},
}

var watchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the watchlist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		entries, err := st.List(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Watchlist is empty")
			return nil
		}
		for _, entry := range entries {
			fmt.Printf("  %s  %-3s %-24s added %s\n",
				entry.ID, entry.Country, entry.City, entry.AddedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	watchCmd.AddCommand(watchAddCmd, watchRemoveCmd, watchListCmd)
	rootCmd.AddCommand(watchCmd)
}
