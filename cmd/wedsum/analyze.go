package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/wedsum/internal/analyzer"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(1, 2)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <chat.txt|chat.zip>",
		Short: "Summarise the wedding details of an exported chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey, _ := cmd.Flags().GetString("api-key")

			cfg, err := loadConfig(os.Stderr)
			if err != nil {
				return err
			}

			req, closeFn, err := openRequest(args[0])
			if err != nil {
				return err
			}
			defer closeFn()
			req.APIKey = apiKey

			out := newAnalyzer(cfg, nil).Analyze(cmd.Context(), req)
			w := cmd.OutOrStdout()
			if out.Failed() {
				fmt.Fprintln(w, errorStyle.Render(out.Diagnostic))
				return errors.New(string(out.Reason))
			}

			fmt.Fprintln(w, titleStyle.Render("💍 "+filepath.Base(req.Filename)))
			fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d messages, last %d characters analysed by %s", out.MessageCount, out.ExcerptChars, out.Model)))
			fmt.Fprintln(w, boxStyle.Render(out.Summary))
			return nil
		},
	}

	cmd.Flags().String("api-key", "", "API key for the model provider (defaults to the configured key)")
	return cmd
}

// openRequest opens a local export as an upload request.
func openRequest(path string) (analyzer.Request, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return analyzer.Request{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return analyzer.Request{}, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	req := analyzer.Request{
		Filename: filepath.Base(path),
		Size:     info.Size(),
		Body:     f,
	}
	return req, func() { f.Close() }, nil
}
