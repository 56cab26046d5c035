package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/rehearse"
	"github.com/aretw0/rehearse/internal/adapters/speech"
	"github.com/aretw0/rehearse/internal/presentation/tui"
	"github.com/aretw0/rehearse/pkg/ports"
	"github.com/aretw0/rehearse/pkg/runner"
	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice <scenario>",
	Short: "Practice an interview in the terminal",
	Long: `Starts an interactive interview. Candidate lines are voiced on the console,
you answer with :1..:N or in your own words, and the session ends with a
feedback report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if muted, _ := cmd.Flags().GetBool("mute"); muted {
			cfg.Speech.Muted = true
		}
		if instant, _ := cmd.Flags().GetBool("instant"); instant {
			cfg.Pacing.Instant = true
		}
		plain, _ := cmd.Flags().GetBool("plain")
		logger := newLogger(cfg)

		var consoleOpts []speech.ConsoleOption
		if cfg.Speech.WordsPerSecond > 0 {
			consoleOpts = append(consoleOpts, speech.WithWordsPerSecond(cfg.Speech.WordsPerSecond))
		}
		var listener ports.SpeechInput
		if cfg.Speech.TranscriptFile != "" {
			f, err := os.Open(cfg.Speech.TranscriptFile)
			if err != nil {
				return fmt.Errorf("failed to open transcript feed: %w", err)
			}
			defer f.Close()
			listener = speech.NewLineInput(f)
		}

		app, err := rehearse.New(cfg,
			rehearse.WithLogger(logger),
			rehearse.WithSpeech(speech.NewConsole(cmd.OutOrStdout(), consoleOpts...), listener),
		)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runnerOpts := []runner.Option{
			runner.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
			runner.WithLogger(logger),
			runner.WithEcho(false),
			runner.WithHeadless(plain),
		}
		if !plain {
			runnerOpts = append(runnerOpts, runner.WithRenderer(tui.NewRenderer(80)))
		}

		err = runner.New(app.Engine, runnerOpts...).Run(ctx, args[0])
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(practiceCmd)
	practiceCmd.Flags().Bool("mute", false, "Print candidate lines without voicing them")
	practiceCmd.Flags().Bool("instant", false, "Skip the conversational pauses")
	practiceCmd.Flags().Bool("plain", false, "No banner, colors or markdown rendering")
}
