package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/notify"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/runtime"
	"github.com/manav03panchal/plantcare/internal/scheduler"
)

// Remind command flags.
var (
	remindFlagOnce     bool
	remindFlagSchedule string
	remindFlagTest     bool
)

var errNoNotifier = errors.NewUserError(
	"No notifier configured",
	"Set reminder.webhook_url or reminder.telegram_token and reminder.telegram_chat_id in your config",
)

// remindCmd represents the remind command.
var remindCmd = &cobra.Command{
	Use:     "remind",
	Aliases: []string{"r", "reminders"},
	Short:   "Send reminders for thirsty plants",
	Long: `Check for plants that are due for water, or whose health has dropped to
the reminder threshold, and notify every configured channel: a webhook
(generic JSON, Slack or Discord) and/or Telegram. Each plant is reminded at
most once per cooldown window.

Without --once, the check runs on a cron schedule (six fields, seconds
first) until interrupted.

Configuration (config.yaml or PLANTCARE_* variables):
  reminder.webhook_url        PLANTCARE_WEBHOOK_URL
  reminder.webhook_format     PLANTCARE_WEBHOOK_FORMAT    generic, slack, discord
  reminder.telegram_token     PLANTCARE_TELEGRAM_TOKEN
  reminder.telegram_chat_id   PLANTCARE_TELEGRAM_CHAT_ID
  reminder.schedule           PLANTCARE_REMIND_SCHEDULE   default 0 0 9 * * *

Examples:
  plantcare remind --once
  plantcare remind --schedule "0 0 8,20 * * *"
  plantcare remind --test`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().BoolVar(&remindFlagOnce, "once", false, "Check once and exit")
	remindCmd.Flags().StringVar(&remindFlagSchedule, "schedule", "", "Cron schedule (default from config)")
	remindCmd.Flags().BoolVar(&remindFlagTest, "test", false, "Send a test notification and exit")

	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, args []string) error {
	cfg := ctx.Config
	dispatcher, err := notify.FromConfig(cfg.Reminder, cfg.HTTP)
	if err != nil {
		return err
	}

	if remindFlagTest {
		return runRemindTest(cmd, dispatcher)
	}

	svc, err := plantService()
	if err != nil {
		return err
	}
	checker := scheduler.NewReminderChecker(
		runtime.NewGardenStore(cmd.Context(), svc),
		dispatcher,
		cfg.Reminder.HealthThreshold,
		cfg.Reminder.Cooldown,
	)

	spec := cfg.Reminder.Schedule
	if remindFlagSchedule != "" {
		spec = remindFlagSchedule
	}
	sched, err := scheduler.NewScheduler(checker, spec)
	if err != nil {
		return err
	}

	if dispatcher.Len() == 0 && !ctx.IsJSON() {
		ctx.CLIFormatter().Warning("No notifier configured; thirsty plants are only listed here.")
	}

	if remindFlagOnce {
		result, err := sched.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		return printCheck(result)
	}

	if !ctx.Debug {
		logging.Init(logging.ServiceConfig())
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(sigCtx); err != nil {
		return err
	}
	if !ctx.IsJSON() {
		ctx.CLIFormatter().Muted(fmt.Sprintf("Reminders on '%s', next check %s (Ctrl+C to stop)",
			spec, output.FormatTime(sched.NextRun())))
	}
	<-sigCtx.Done()
	sched.Stop()
	return nil
}

func printCheck(result *scheduler.CheckResult) error {
	now := ctx.Now()
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.RemindResponse{
			Checked:  result.Checked,
			Thirsty:  output.NewPlantOutputs(result.Thirsty, now),
			Notified: result.Notified,
		})
	}

	cli := ctx.CLIFormatter()
	if len(result.Thirsty) == 0 {
		cli.Success(fmt.Sprintf("Checked %s; none need water.", output.Plural(result.Checked, "plant")))
		return nil
	}
	cli.Warning(fmt.Sprintf("%s of %d need water (%d reminded):",
		output.Plural(len(result.Thirsty), "plant"), result.Checked, result.Notified))
	cli.PrintPlantTable(result.Thirsty, now)
	return nil
}

func runRemindTest(cmd *cobra.Command, dispatcher *notify.Dispatcher) error {
	if dispatcher.Len() == 0 {
		return errNoNotifier
	}

	results := dispatcher.SendTest(cmd.Context(), ctx.Now())
	failed := 0
	var firstErr error
	cli := ctx.CLIFormatter()
	for _, r := range results {
		if !r.Success() {
			failed++
			if firstErr == nil {
				firstErr = r.Error
			}
		}
		if ctx.IsJSON() {
			continue
		}
		if r.Success() {
			cli.Success(fmt.Sprintf("%s: delivered in %s", r.Notifier, r.Duration.Round(time.Millisecond)))
		} else {
			cli.Error(fmt.Sprintf("%s: %v", r.Notifier, r.Error))
		}
	}

	if ctx.IsJSON() {
		type testResult struct {
			Notifier   string `json:"notifier"`
			Success    bool   `json:"success"`
			DurationMs int64  `json:"duration_ms"`
			Error      string `json:"error,omitempty"`
		}
		out := make([]testResult, 0, len(results))
		for _, r := range results {
			tr := testResult{Notifier: r.Notifier, Success: r.Success(), DurationMs: r.Duration.Milliseconds()}
			if r.Error != nil {
				tr.Error = r.Error.Error()
			}
			out = append(out, tr)
		}
		if err := ctx.Formatter.JSON(out); err != nil {
			return err
		}
	}
	if failed > 0 {
		return errors.NewSystemError(fmt.Sprintf("%d of %d notifiers failed", failed, len(results)), firstErr)
	}
	return nil
}
