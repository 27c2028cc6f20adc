package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"studypulse/internal/api"
	"studypulse/internal/preflight"
)

const statusTimeout = 5 * time.Second

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var probe bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and configuration checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			base, err := ctx.apiBaseURL()
			if err != nil {
				return err
			}

			status, fetchErr := fetchStatus(cmd.Context(), base, cfg.Paths.APIToken)
			checks := preflight.RunAll(cmd.Context(), cfg)
			if probe {
				checks = append(checks, preflight.RunRemote(cmd.Context(), cfg)...)
			}

			if jsonOutput {
				if fetchErr != nil {
					status = &api.StatusResponse{Success: true}
				}
				status.Checks = checks
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, "Daemon")
			if fetchErr != nil {
				fmt.Fprintln(out, renderField("Running", "no"))
				fmt.Fprintln(out, renderField("Detail", fetchErr.Error()))
			} else {
				fmt.Fprintln(out, renderField("Running", yesNo(status.Running)))
				fmt.Fprintln(out, renderField("PID", fmt.Sprintf("%d", status.PID)))
				fmt.Fprintln(out, renderField("Started", status.StartedAt))
				fmt.Fprintln(out, renderField("Backend", status.Backend))
				fmt.Fprintln(out, renderField("Sessions", fmt.Sprintf("%d", status.SessionCount)))
				fmt.Fprintln(out, renderField("Classifier", status.Classifier))
				fmt.Fprintln(out, renderField("Transcription", yesNo(status.Transcription)))
				fmt.Fprintln(out, renderField("Feed clients", fmt.Sprintf("%d", status.FeedClients)))
			}
			fmt.Fprintln(out, "Checks")
			for _, check := range checks {
				fmt.Fprintln(out, renderCheck(check, colorize))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "Also probe the configured classifier and transcription endpoints")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func fetchStatus(ctx context.Context, base, token string) (*api.StatusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/status", nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, fmt.Errorf("daemon not reachable at %s; start it with `studypulsed`", base)
		}
		return nil, fmt.Errorf("query daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure api.ErrorResponse
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &failure) == nil && failure.Error != "" {
			return nil, fmt.Errorf("daemon returned %d: %s", resp.StatusCode, failure.Error)
		}
		return nil, fmt.Errorf("daemon returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var status api.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}
