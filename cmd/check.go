package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/wavewatch/wavewatch/internal/utils"
	"github.com/wavewatch/wavewatch/pkg/runner"
)

// checkCmd implements: wavewatch check
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the recent-decisions page once and notify about new waves",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command: '%s'. See 'wavewatch check --help'", args[0])
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		htmlPath, _ := cmd.Flags().GetString("html")
		useLock, _ := cmd.Flags().GetBool("lock")

		cfg, err := runnerConfig(htmlPath, dryRun)
		if err != nil {
			return err
		}
		_, err = runCheck(cmd.Context(), cfg, useLock)
		return err
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("dry-run", false, "Print what would be sent without notifying or saving state")
	checkCmd.Flags().String("html", "", "Read a saved copy of the page instead of fetching it")
	checkCmd.Flags().Bool("lock", false, "Hold an exclusive lock on the state file during the run")
}

// runCheck performs a single run, optionally under the state file lock.
func runCheck(ctx context.Context, cfg runner.Config, useLock bool) (*runner.Result, error) {
	if useLock {
		lock, err := utils.NewStateLock(statePath())
		if err != nil {
			return nil, err
		}
		if err := lock.Lock(); err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				utils.Log.Warnf("Could not release %s: %v", lock.Path(), err)
			}
		}()
	}

	utils.Log.Infof("[%s] Checking for new decisions...", time.Now().Format(time.RFC3339))
	res, err := runner.Run(ctx, cfg)
	if err != nil {
		utils.Log.Errorf("Check failed: %v", err)
		return res, err
	}
	if res.NotifyErr != nil {
		utils.Log.Warnf("%d change(s) recorded but the notification was not delivered.", len(res.Changes))
	}
	if res.Saved {
		utils.Log.Infof("State saved to %s.", statePath())
	}
	return res, nil
}
