package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"studypulse/internal/api"
	"studypulse/internal/recommend"
	"studypulse/internal/voice"
)

func newStressCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "stress <words...>",
		Short:       "Classify stress from a transcript without recording it",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis := voice.Analyze(strings.Join(args, " "))
			if jsonOutput {
				return writeJSON(cmd, analysis)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderField("Words", fmt.Sprintf("%d", analysis.WordCount)))
			fmt.Fprintln(out, renderField("Stress level", renderStressLevel(string(analysis.StressLevel), colorize)))
			fmt.Fprintln(out, renderField("Energy level", fmt.Sprintf("%.1f", analysis.EnergyLevel)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newRecommendCommand() *cobra.Command {
	var stressFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "recommend <label>",
		Short:       "Show study recommendations for an emotion or stress label",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := recommend.Lookup(args[0], stressFlag)
			if jsonOutput {
				return writeJSON(cmd, rec)
			}
			printRecommendation(cmd.OutOrStdout(), rec)
			return nil
		},
	}
	cmd.Flags().StringVar(&stressFlag, "stress", "", "Stress level override (low, medium, high)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze input and record a session locally",
	}
	analyzeCmd.AddCommand(newAnalyzeVoiceCommand(ctx))
	analyzeCmd.AddCommand(newAnalyzeImageCommand(ctx))
	return analyzeCmd
}

func newAnalyzeVoiceCommand(ctx *commandContext) *cobra.Command {
	var audioPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "voice [words...]",
		Short: "Analyze a transcript (or an audio file with --audio) and record the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if audioPath == "" && len(args) == 0 {
				return fmt.Errorf("provide a transcript or --audio")
			}
			return ctx.withAssistant(func(assistant *api.Assistant) error {
				var (
					result api.VoiceResult
					err    error
				)
				if audioPath != "" {
					result, err = analyzeAudioFile(cmd, assistant, audioPath)
				} else {
					result, err = assistant.AnalyzeTranscript(cmd.Context(), api.NewVoiceRequest(strings.Join(args, " ")))
				}
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderField("Session", result.SessionID))
				fmt.Fprintln(out, renderField("Words", fmt.Sprintf("%d", result.VoiceResult.WordCount)))
				fmt.Fprintln(out, renderField("Stress level", renderStressLevel(string(result.VoiceResult.StressLevel), colorize)))
				fmt.Fprintln(out, renderField("Energy level", fmt.Sprintf("%.1f", result.VoiceResult.EnergyLevel)))
				printRecommendation(out, result.Recommendations)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&audioPath, "audio", "", "Audio file to transcribe instead of a transcript")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func analyzeAudioFile(cmd *cobra.Command, assistant *api.Assistant, path string) (api.VoiceResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return api.VoiceResult{}, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()
	return assistant.AnalyzeAudio(cmd.Context(), voice.Audio{
		Filename: filepath.Base(path),
		Body:     file,
	})
}

func newAnalyzeImageCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "image <file>...",
		Short: "Classify one or more snapshots and record the session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames := make([]string, 0, len(args))
			for _, path := range args {
				encoded, err := encodeImageFile(path)
				if err != nil {
					return err
				}
				frames = append(frames, encoded)
			}
			return ctx.withAssistant(func(assistant *api.Assistant) error {
				result, err := assistant.AnalyzeEmotion(cmd.Context(), api.EmotionRequest{Images: frames})
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderField("Session", result.SessionID))
				fmt.Fprintln(out, renderField("Emotion", displayLabel(result.Emotion)))
				fmt.Fprintln(out, renderField("Confidence", fmt.Sprintf("%.2f%%", result.Confidence)))
				fmt.Fprintln(out, renderField("Frames", fmt.Sprintf("%d", result.Frames)))
				printRecommendation(out, result.Recommendations)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func encodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
