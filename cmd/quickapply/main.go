// Command quickapply walks a job search page and submits every quick-apply
// application it can complete.
package main

import (
	"errors"
	"fmt"
	"os"

	"quickapply/internal/domain/entity"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "quickapply",
	Short:         "Automated quick-apply job applications",
	Long:          "quickapply opens a job search page in Chromium, walks every quick-apply wizard and answers free-text questions with a language model.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, entity.ErrFatalConfig) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
