package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cg3-llc/prior-go/client"
	"github.com/cg3-llc/prior-go/internal/input"
)

func newSearchCmd() *cobra.Command {
	var maxResults, maxTokens int
	var minQuality float64
	var runtime, osName, shell, contextJSON string
	var toolNames []string

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			searchCtx, err := input.BuildSearchContext(runtime, osName, shell, toolNames, contextJSON)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}

			log.Debug().Str("query", query).Int("max_results", maxResults).Msg("searching")
			raw, err := c.Search(cmd.Context(), client.SearchRequest{
				Query:      query,
				MaxResults: maxResults,
				MinQuality: minQuality,
				MaxTokens:  maxTokens,
				Context:    searchCtx,
			})
			if err != nil {
				return err
			}
			data, err := envelopeData(raw)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), data)
			}
			return renderSearch(cmd, data)
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 3, "Max results (default: 3)")
	cmd.Flags().Float64Var(&minQuality, "min-quality", 0, "Minimum quality score filter (0.0-1.0)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Max tokens in response")
	cmd.Flags().StringVar(&runtime, "runtime", defaultRuntime, "Runtime context tag")
	cmd.Flags().StringVar(&osName, "os", "", "Operating system context tag")
	cmd.Flags().StringVar(&shell, "shell", "", "Shell context tag")
	cmd.Flags().StringSliceVar(&toolNames, "tools", nil, "Available tools (comma-separated)")
	cmd.Flags().StringVar(&contextJSON, "context", "", "Inline JSON merged into the search context")

	return cmd
}

func renderSearch(cmd *cobra.Command, data json.RawMessage) error {
	var d struct {
		Results []struct {
			ID               string   `json:"id"`
			Title            string   `json:"title"`
			RelevanceScore   float64  `json:"relevanceScore"`
			TrustLevel       string   `json:"trustLevel"`
			Tags             []string `json:"tags"`
			Problem          string   `json:"problem"`
			Solution         string   `json:"solution"`
			ErrorMessages    []string `json:"errorMessages"`
			FailedApproaches []string `json:"failedApproaches"`
		} `json:"results"`
		DoNotTry []string `json:"doNotTry"`
		Cost     struct {
			CreditsCharged   float64 `json:"creditsCharged"`
			BalanceRemaining float64 `json:"balanceRemaining"`
		} `json:"cost"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(d.Results) == 0 {
		fmt.Fprintln(out, "No results found.")
		if d.Cost.CreditsCharged == 0 {
			fmt.Fprintln(out, "(No charge for empty results)")
		}
		return nil
	}

	for i, r := range d.Results {
		fmt.Fprintf(out, "\n%s\n", strings.Repeat("-", 60))
		fmt.Fprintf(out, "[%d] %s\n", i+1, r.Title)
		fmt.Fprintf(out, "    ID: %s  Score: %.3f  Trust: %s\n", r.ID, r.RelevanceScore, r.TrustLevel)
		fmt.Fprintf(out, "    Tags: %s\n", strings.Join(r.Tags, ", "))
		if r.Problem != "" {
			fmt.Fprintf(out, "    Problem: %s\n", truncate(r.Problem, 120))
		}
		if r.Solution != "" {
			fmt.Fprintf(out, "    Solution: %s\n", truncate(r.Solution, 120))
		}
		for j, em := range r.ErrorMessages {
			if j == 2 {
				break
			}
			fmt.Fprintf(out, "    Error: %s\n", truncate(em, 100))
		}
		if len(r.FailedApproaches) > 0 {
			fmt.Fprintf(out, "    Failed approaches: %d\n", len(r.FailedApproaches))
		}
	}

	if len(d.DoNotTry) > 0 {
		fmt.Fprintln(out, "\nDo NOT try:")
		for _, item := range d.DoNotTry {
			fmt.Fprintf(out, "  - %s\n", item)
		}
	}

	fmt.Fprintf(out, "\nCost: %g credit(s)  Balance: %g\n", d.Cost.CreditsCharged, d.Cost.BalanceRemaining)
	return nil
}

func newContributeCmd() *cobra.Command {
	var f input.ContributeFlags

	cmd := &cobra.Command{
		Use:   "contribute",
		Short: "Contribute knowledge (flags, piped JSON, or both)",
		RunE: func(cmd *cobra.Command, args []string) error {
			piped, err := readPiped(cmd)
			if err != nil {
				return err
			}
			req, err := input.BuildContribute(piped, f)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			raw, err := c.Contribute(cmd.Context(), req)
			if err != nil {
				return err
			}
			data, err := envelopeData(raw)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), data)
			}

			var d struct {
				ID            string  `json:"id"`
				CreditsEarned float64 `json:"creditsEarned"`
			}
			if err := json.Unmarshal(data, &d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contributed: %s\n", d.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Credits earned: %g\n", d.CreditsEarned)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Title, "title", "", "Entry title (describe the symptom)")
	cmd.Flags().StringVar(&f.Content, "content", "", "Full content/explanation")
	cmd.Flags().StringVar(&f.Tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&f.Model, "model", "", "Model that generated this (default: unknown)")
	cmd.Flags().StringVar(&f.Problem, "problem", "", "Structured problem description")
	cmd.Flags().StringVar(&f.Solution, "solution", "", "Structured solution description")
	cmd.Flags().StringArrayVar(&f.ErrorMessages, "error-messages", nil, "Exact error messages encountered (repeatable)")
	cmd.Flags().StringArrayVar(&f.FailedApproaches, "failed-approaches", nil, "Approaches that didn't work (repeatable)")
	cmd.Flags().StringVar(&f.Environment, "environment", "", "Inline JSON environment override")
	cmd.Flags().IntVar(&f.EffortTokens, "effort-tokens", 0, "Tokens spent solving this")
	cmd.Flags().IntVar(&f.EffortAttempts, "effort-attempts", 0, "Attempts before the fix")
	cmd.Flags().StringVar(&f.TTL, "ttl", "", "Time-to-live: 30d, 60d, 90d, 365d, or evergreen")
	cmd.Flags().StringVar(&f.Visibility, "visibility", "", "Entry visibility (default: public)")

	return cmd
}

func newFeedbackCmd() *cobra.Command {
	var f input.FeedbackFlags

	cmd := &cobra.Command{
		Use:   "feedback [ID] [OUTCOME]",
		Short: "Give feedback on an entry (useful/not_useful)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && f.EntryID == "" {
				f.EntryID = args[0]
			}
			if len(args) > 1 && f.Outcome == "" {
				f.Outcome = args[1]
			}

			piped, err := readPiped(cmd)
			if err != nil {
				return err
			}
			entryID, req, err := input.BuildFeedback(piped, f)
			if err != nil {
				return err
			}
			switch req.Outcome {
			case "useful", "not_useful", "correction_verified", "correction_rejected":
			default:
				return fmt.Errorf("outcome must be one of useful, not_useful, correction_verified, correction_rejected")
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			raw, err := c.Feedback(cmd.Context(), entryID, req)
			if err != nil {
				return err
			}
			data, err := envelopeData(raw)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), data)
			}

			var d struct {
				CreditsRefunded float64 `json:"creditsRefunded"`
			}
			if err := json.Unmarshal(data, &d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Feedback recorded. Refund: %g credit(s)\n", d.CreditsRefunded)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.EntryID, "id", "", "Entry ID (e.g., k_abc123)")
	cmd.Flags().StringVar(&f.Outcome, "outcome", "", "useful, not_useful, correction_verified or correction_rejected")
	cmd.Flags().StringVar(&f.Reason, "reason", "", "Reason (required for not_useful)")
	cmd.Flags().StringVar(&f.Notes, "notes", "", "Additional notes")
	cmd.Flags().StringVar(&f.Correction, "correction", "", "Corrected content if the entry was wrong")
	cmd.Flags().StringVar(&f.CorrectionTitle, "correction-title", "", "Title for the correction entry")
	cmd.Flags().StringVar(&f.CorrectionTags, "correction-tags", "", "Comma-separated tags for the correction entry")
	cmd.Flags().StringVar(&f.CorrectionID, "correction-id", "", "Correction entry ID for correction_verified/rejected")

	return cmd
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Get a specific entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			raw, err := c.GetEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := envelopeData(raw)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), data)
			}

			var d struct {
				ID           string   `json:"id"`
				Title        string   `json:"title"`
				Status       string   `json:"status"`
				QualityScore float64  `json:"qualityScore"`
				Tags         []string `json:"tags"`
				Content      string   `json:"content"`
			}
			if err := json.Unmarshal(data, &d); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title: %s\n", d.Title)
			fmt.Fprintf(out, "ID: %s  Status: %s  Quality: %g\n", d.ID, d.Status, d.QualityScore)
			fmt.Fprintf(out, "Tags: %s\n", strings.Join(d.Tags, ", "))
			fmt.Fprintf(out, "\n%s\n", d.Content)
			return nil
		},
	}
	return cmd
}

func newRetractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retract ID",
		Short: "Retract one of your contributions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.Retract(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Retracted: %s\n", args[0])
			return nil
		},
	}
	return cmd
}
