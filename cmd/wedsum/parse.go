package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/wedsum/internal/analyzer"
	"github.com/MikeSquared-Agency/wedsum/internal/archive"
	"github.com/MikeSquared-Agency/wedsum/internal/chat"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <chat.txt|chat.zip>",
		Short: "Print the messages extracted from an exported chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flat, _ := cmd.Flags().GetBool("flat")
			asJSON, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(os.Stderr)
			if err != nil {
				return err
			}

			req, closeFn, err := openRequest(args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			w := cmd.OutOrStdout()
			if flat {
				return parseFlat(w, req)
			}

			out := newAnalyzer(cfg, nil).Parse(cmd.Context(), req)
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			} else if !out.Failed() {
				for _, m := range out.Messages {
					fmt.Fprintf(w, "%s  %s\n", m.Timestamp.Format("2006-01-02 15:04"), m.Line())
				}
			}
			if out.Failed() {
				fmt.Fprintln(cmd.ErrOrStderr(), out.Diagnostic)
				return errors.New(string(out.Reason))
			}
			return nil
		},
	}

	cmd.Flags().Bool("flat", false, "Stream sender: message lines without timestamps")
	cmd.Flags().Bool("json", false, "Print the parse outcome as JSON")
	return cmd
}

// parseFlat streams the lightweight variant straight to w.
func parseFlat(w io.Writer, req analyzer.Request) error {
	var src io.Reader = io.NewSectionReader(req.Body, 0, req.Size)
	if archive.IsArchive(req.Filename) {
		rc, _, err := archive.OpenTranscript(req.Body, req.Size)
		if err != nil {
			return err
		}
		defer rc.Close()
		src = rc
	}

	stats, err := chat.ParseFlat(src, w)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintf(os.Stderr, "%d messages, %d continuations, %d discarded\n", stats.Messages, stats.Continuations, stats.Discarded)
	return nil
}
