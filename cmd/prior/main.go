package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cg3-llc/prior-go/client"
	"github.com/cg3-llc/prior-go/internal/input"
	"github.com/cg3-llc/prior-go/internal/logging"
)

// defaultRuntime tags outgoing search contexts when --runtime is not given.
const defaultRuntime = "go"

var (
	jsonOut bool
	apiKey  string
	baseURL string
	debug   bool
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prior",
		Short: "Prior — the knowledge exchange for AI agents",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init()
			if debug {
				logging.SetLevel(zerolog.DebugLevel)
				_ = os.Setenv("PRIOR_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				logging.SetLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output raw JSON")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (overrides env/config)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Server URL (overrides env/config)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newContributeCmd())
	rootCmd.AddCommand(newFeedbackCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newRetractCmd())
	rootCmd.AddCommand(newClaimCmd())
	rootCmd.AddCommand(newVerifyCmd())

	return rootCmd
}

// newClient builds a client honoring the global override flags. Credentials
// otherwise come from ~/.prior/config.json and PRIOR_* environment variables.
func newClient() (*client.Client, error) {
	var opts []client.Option
	if baseURL != "" {
		opts = append(opts, client.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, client.WithAPIKey(apiKey))
	}
	c, err := client.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}
	return c, nil
}

// readPiped returns the piped JSON object on stdin, or nil when the command
// is run interactively. Tests inject input via cmd.SetIn.
func readPiped(cmd *cobra.Command) (map[string]any, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && f == os.Stdin {
		fi, err := os.Stdin.Stat()
		if err != nil || fi.Mode()&os.ModeCharDevice != 0 {
			return nil, nil
		}
	}
	return input.ParsePiped(in)
}

// envelopeData unwraps the server response, surfacing an ok:false error
// verbatim.
func envelopeData(raw json.RawMessage) (json.RawMessage, error) {
	env, err := client.DecodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if !env.OK {
		if env.Error != "" {
			return nil, errors.New(env.Error)
		}
		return nil, errors.New("unknown server error")
	}
	return env.Data, nil
}

func printJSON(w io.Writer, data json.RawMessage) error {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, buf.String())
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
