package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/pipeline"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts a terminal chat loop against the pipeline. Clarification
context carries across turns, so an open question can be answered in the
next message. Type 'exit' or 'quit' to leave.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := bootstrap(cmd)
		if err != nil {
			fmt.Printf("Error initializing mealgraph: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		userID, _ := cmd.Flags().GetInt64("user")
		runChat(cmd.Context(), a, userID)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Int64P("user", "u", 1, "User id to act as")
}

func runChat(ctx context.Context, a *app, userID int64) {
	render := newRenderer()
	prompt := chatPrompt()

	fmt.Println("MealGraph chat. Type 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Println("Bye!")
			return
		}

		req := pipeline.TurnRequest{UserID: userID, Message: line}
		if pc, err := a.contexts.Load(ctx, userID); err == nil {
			req.Context = pc
		}

		resp, err := a.pipeline.Turn(ctx, req)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		// Keep candidates and selection around while a question is open,
		// so the next message can answer it.
		if resp.NeedsClarification {
			_ = a.contexts.Save(ctx, userID, domain.PriorContext{
				Candidates: resp.Candidates,
				Selected:   resp.Selected,
			})
		} else {
			_ = a.contexts.Delete(ctx, userID)
		}

		fmt.Print(render(formatTurn(resp)))
	}
}

// newRenderer returns a markdown renderer for the chat output. Outside a
// terminal it passes text through unchanged.
func newRenderer() func(string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func(md string) string { return md + "\n" }
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(md string) string { return md + "\n" }
	}
	return func(md string) string {
		out, err := r.Render(md)
		if err != nil {
			return md + "\n"
		}
		return out
	}
}

func chatPrompt() string {
	p := termenv.ColorProfile()
	return termenv.String("you> ").Foreground(p.Color("#34d399")).Bold().String()
}

// formatTurn renders one response as markdown: the message, any candidate
// foods and the open question.
func formatTurn(resp pipeline.TurnResponse) string {
	var b strings.Builder

	if resp.Message != "" {
		b.WriteString(resp.Message)
		b.WriteString("\n")
	}

	if len(resp.Candidates) > 0 {
		b.WriteString("\n")
		for i, c := range resp.Candidates {
			if c.Brand != "" {
				fmt.Fprintf(&b, "%d. **%s** (%s) - id %d\n", i+1, c.Name, c.Brand, c.ID)
			} else {
				fmt.Fprintf(&b, "%d. **%s** - id %d\n", i+1, c.Name, c.ID)
			}
		}
	}

	if resp.NeedsClarification {
		for _, q := range resp.Questions {
			fmt.Fprintf(&b, "\n> %s\n", q)
		}
	}

	return b.String()
}
