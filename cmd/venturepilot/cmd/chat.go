package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/chat"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/fsutil"
)

var chatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask the startup assistant a question",
	Long: `Ask a single question grounded in the document corpus. Pass --profile
with a startup JSON file to scope retrieval to its geography.

Examples:
  venturepilot chat "Which government schemes apply to seed-stage fintech?"
  venturepilot chat --profile startup.json "Who invests in B2B lending?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

var (
	chatProfile string
	chatRaw     bool
	chatWidth   int
)

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&chatProfile, "profile", "", "JSON file holding the startup input")
	chatCmd.Flags().BoolVar(&chatRaw, "raw", false, "print the answer without markdown rendering")
	chatCmd.Flags().IntVar(&chatWidth, "width", 80, "word wrap width for rendered answers")
}

func runChat(cmd *cobra.Command, args []string) error {
	q := chat.Question{Question: strings.Join(args, " ")}
	if chatProfile != "" {
		data, err := fsutil.ReadFileScoped(chatProfile)
		if err != nil {
			return fmt.Errorf("reading profile: %w", err)
		}
		var in core.StartupInput
		if err := json.Unmarshal(data, &in); err != nil {
			return fmt.Errorf("parsing profile: %w", err)
		}
		q.StartupProfile = &in
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	answer, err := a.chat.Ask(ctx, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if chatRaw {
		_, _ = fmt.Fprintln(out, answer.Answer)
	} else {
		_, _ = fmt.Fprint(out, renderMarkdown(answer.Answer, chatWidth))
	}
	_, _ = fmt.Fprintln(out, mutedStyle.Render("Sources: "+strings.Join(answer.Sources, "; ")))
	_, _ = fmt.Fprintln(out, mutedStyle.Render("Related: "+strings.Join(answer.RelatedTopics, ", ")))
	return nil
}
