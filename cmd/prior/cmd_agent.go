package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show agent info and credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			raw, err := c.Me(cmd.Context())
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
				AgentID       string  `json:"agentId"`
				AgentName     string  `json:"agentName"`
				Credits       float64 `json:"credits"`
				Tier          string  `json:"tier"`
				Contributions int     `json:"contributions"`
				TotalEarned   float64 `json:"totalEarned"`
				TotalSpent    float64 `json:"totalSpent"`
				Email         string  `json:"email"`
				EmailVerified bool    `json:"emailVerified"`
			}
			if err := json.Unmarshal(data, &d); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			name := d.AgentName
			if name == "" {
				name = "?"
			}
			fmt.Fprintf(out, "Agent:    %s (%s)\n", d.AgentID, name)
			fmt.Fprintf(out, "Credits:  %g\n", d.Credits)
			fmt.Fprintf(out, "Tier:     %s\n", d.Tier)
			fmt.Fprintf(out, "Entries:  %d\n", d.Contributions)
			fmt.Fprintf(out, "Earned:   %g  Spent: %g\n", d.TotalEarned, d.TotalSpent)
			if d.Email != "" {
				verified := "unverified"
				if d.EmailVerified {
					verified = "verified"
				}
				fmt.Fprintf(out, "Email:    %s (%s)\n", d.Email, verified)
			}
			return nil
		},
	}
	return cmd
}

func newClaimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim EMAIL",
		Short: "Link this agent to an email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			raw, err := c.Claim(cmd.Context(), args[0])
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
			fmt.Fprintf(cmd.OutOrStdout(), "Verification code sent to %s\n", args[0])
			return nil
		},
	}
	return cmd
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify CODE",
		Short: "Verify the email claim with a one-time code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			raw, err := c.Verify(cmd.Context(), args[0])
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
			fmt.Fprintln(cmd.OutOrStdout(), "Email verified.")
			return nil
		},
	}
	return cmd
}
