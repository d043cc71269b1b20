package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"marketstock.GO/config"
	"marketstock.GO/cron"
	"marketstock.GO/cron/jobs"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jobName != "" {
			name := strings.ToLower(jobName)
			if j, ok := cron.Jobs()[name]; ok {
				cmd.Printf("Running cron job: %s\n", jobName)
				j.Run(args...)
				return nil
			}
			return fmt.Errorf("unknown job: %s", jobName)
		}
		cmd.Println("Starting cron scheduler...")
		c, err := cron.StartCron(map[string]string{
			jobs.SalesImportJob: config.LoadAppConfig().SalesImportSchedule,
		})
		if err != nil {
			return err
		}
		defer func() { <-c.Stop().Done() }()
		cmd.Println("Cron scheduler started. Press Ctrl+C to exit.")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit (args: optional file)")
	Register(cronStartCmd)
}
