package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"github.com/thesavant42/ghfinder/internal/models"
	"github.com/thesavant42/ghfinder/internal/ui"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [username]",
	Short: "Print a user's profile and top repositories",
	Long: `Look up a GitHub user without the interactive finder and print the
profile card and top repositories. Prompts for a username when none is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLookup,
}

var (
	lookupMarkdown bool
	lookupRender   bool
	lookupOutDir   string
)

func init() {
	lookupCmd.Flags().BoolVar(&lookupMarkdown, "markdown", false, "Also write a markdown report")
	lookupCmd.Flags().BoolVar(&lookupRender, "render", false, "Print the markdown report rendered for the terminal")
	lookupCmd.Flags().StringVarP(&lookupOutDir, "out", "o", ".", "Directory for the markdown report")
}

func runLookup(cmd *cobra.Command, args []string) error {
	c, err := initContext(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	var username string
	if len(args) > 0 {
		username = strings.TrimSpace(args[0])
	} else {
		username, err = ui.PromptForUsername(c.Theme())
		if err != nil {
			return err
		}
	}
	if username == "" {
		return errors.New("username cannot be empty")
	}

	var result models.SearchResult
	err = spinner.New().
		Title("Looking up " + username + "...").
		Context(cmd.Context()).
		Action(func() {
			result = c.Client.Search(cmd.Context(), username)
		}).
		Run()
	if err != nil {
		return fmt.Errorf("lookup interrupted: %w", err)
	}

	if c.History != nil {
		if err := c.History.RecordSearch(result); err != nil && c.Logger != nil {
			c.Logger.Error("Failed to record search", "login", username, "error", err)
		}
	}

	return reportLookup(cmd.OutOrStdout(), c, result)
}

// reportLookup prints the result, writes the markdown file if asked and maps
// failed outcomes to an error
func reportLookup(w io.Writer, c *cmdContext, result models.SearchResult) error {
	switch {
	case result.Profile == nil:
	case lookupRender:
		out, err := ui.RenderMarkdownReport(result, c.Config.TopN, c.Theme())
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
	default:
		ui.PrintProfileReport(w, result, c.Config.TopN, c.Theme())
	}

	if lookupMarkdown && result.Profile != nil {
		path, err := ui.ExportMarkdown(result, lookupOutDir, c.Config.TopN)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, c.Theme().SuccessStyle().Render("Report written to "+path))
	}

	return outcomeError(result)
}

// outcomeError returns the user-facing error for an unsuccessful search
func outcomeError(result models.SearchResult) error {
	switch result.Outcome {
	case models.OutcomeFound:
		return nil
	case models.OutcomeNotFound:
		return errors.New(ui.NoticeUserNotFound)
	}
	if result.Err != nil {
		return fmt.Errorf("%s: %w", ui.NoticeGeneric, result.Err)
	}
	return errors.New(ui.NoticeGeneric)
}
