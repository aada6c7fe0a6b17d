package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/wavewatch/wavewatch/internal/utils"
)

// watchCmd implements: wavewatch watch
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep running and check on a cron schedule",
	RunE: func(cmd *cobra.Command, _ []string) error {
		spec, _ := cmd.Flags().GetString("schedule")
		useLock, _ := cmd.Flags().GetBool("lock")
		runNow, _ := cmd.Flags().GetBool("now")

		cfg, err := runnerConfig("", false)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		c := cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		)
		job := func() {
			// Failures are logged by runCheck; the next tick tries again.
			_, _ = runCheck(ctx, cfg, useLock)
		}
		if _, err := c.AddFunc(spec, job); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", spec, err)
		}

		if runNow {
			job()
		}
		c.Start()
		utils.Log.Infof("Watching %s on schedule %q. Press Ctrl+C to stop.", cfg.SourceURL, spec)

		<-ctx.Done()
		utils.Log.Info("Stopping, waiting for a running check to finish...")
		<-c.Stop().Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("schedule", "*/10 * * * *", "Cron expression (5 fields or @every 10m)")
	watchCmd.Flags().Bool("now", true, "Run a check immediately instead of waiting for the first tick")
	watchCmd.Flags().Bool("lock", false, "Hold an exclusive lock on the state file during each run")
}
