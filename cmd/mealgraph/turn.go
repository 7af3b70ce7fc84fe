package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mealgraph/mealgraph/pkg/pipeline"
)

// turnCmd represents the turn command
var turnCmd = &cobra.Command{
	Use:   "turn [message]",
	Short: "Process a single message and print the JSON response",
	Long: `Runs one message through the pipeline and prints the full turn
response as JSON. Useful for scripting and for inspecting exactly what a
message produces.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := bootstrap(cmd)
		if err != nil {
			fmt.Printf("Error initializing mealgraph: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		userID, _ := cmd.Flags().GetInt64("user")

		resp, err := a.pipeline.Turn(cmd.Context(), pipeline.TurnRequest{
			UserID:  userID,
			Message: strings.Join(args, " "),
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			fmt.Printf("Error encoding response: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(turnCmd)

	turnCmd.Flags().Int64P("user", "u", 1, "User id to act as")
}
