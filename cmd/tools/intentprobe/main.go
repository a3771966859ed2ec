// Command intentprobe runs utterances through the chat intent matcher
// without starting the server.
//
//	intentprobe "Brampton to CN Tower"
//	echo "weather?" | intentprobe --json
//	intentprobe --labels
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gtanav/assistant/backend/internal/analysis/intent"
	"github.com/gtanav/assistant/backend/internal/catalog"
)

type options struct {
	json   bool
	labels bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "intentprobe [utterance...]",
		Short: "Show which intent the assistant matches for an utterance",
		Long: "Each argument is matched as one utterance. With no arguments, " +
			"utterances are read one per line from stdin.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Default()
			if err != nil {
				return err
			}
			m := intent.New(intent.KnowledgeFrom(c))
			out := cmd.OutOrStdout()

			if opts.labels {
				for i, label := range m.Labels() {
					fmt.Fprintf(out, "%2d. %s\n", i+1, label)
				}
				return nil
			}

			if len(args) > 0 {
				for _, text := range args {
					if err := printResult(out, m.Match(text), opts); err != nil {
						return err
					}
				}
				return nil
			}
			return probeLines(cmd.InOrStdin(), out, m, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print each result as a JSON line")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "list intents in match order and exit")
	return cmd
}

func probeLines(in io.Reader, out io.Writer, m *intent.Matcher, opts options) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := printResult(out, m.Match(line), opts); err != nil {
			return err
		}
	}
	return sc.Err()
}

func printResult(out io.Writer, res intent.Result, opts options) error {
	if opts.json {
		return json.NewEncoder(out).Encode(res)
	}

	fmt.Fprintf(out, "[%s] %s\n", res.Intent, res.Text)
	for _, l := range res.Links {
		fmt.Fprintf(out, "  link: %s %s\n", l.Label, l.URL)
	}
	if len(res.Suggestions) > 0 {
		fmt.Fprintf(out, "  try:  %s\n", strings.Join(res.Suggestions, " | "))
	}
	return nil
}
