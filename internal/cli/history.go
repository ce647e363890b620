package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/thesavant42/ghfinder/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	Long:  `List the most recent searches recorded in the history database.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var (
	historyLimit int
	historyClear bool
	historyYes   bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of searches to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all recorded searches")
	historyCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Skip the confirmation for --clear")
}

func runHistory(cmd *cobra.Command, args []string) error {
	c, err := initContext(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	if c.History == nil {
		return errors.New("search history is disabled (db_path is empty)")
	}

	if historyClear {
		return clearHistory(cmd.OutOrStdout(), c)
	}

	records, err := c.History.RecentSearches(historyLimit)
	if err != nil {
		return err
	}
	ui.PrintHistory(cmd.OutOrStdout(), records, c.Theme())
	return nil
}

// clearHistory deletes every recorded search after confirmation, reporting to w
func clearHistory(w io.Writer, c *cmdContext) error {
	count, err := c.History.CountSearches()
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Fprintln(w, "History is already empty")
		return nil
	}

	if !historyYes {
		ok, err := ui.ConfirmClearHistory(c.Theme(), count)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled")
			return nil
		}
	}

	n, err := c.History.ClearHistory()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, c.Theme().SuccessStyle().Render(fmt.Sprintf("Cleared %d searches", n)))
	return nil
}
