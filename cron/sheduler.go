package cron

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"marketstock.GO/config"
)

// StartCron schedules every registered job and starts the scheduler. schedules
// overrides the registered schedule per job name, e.g. from configuration.
func StartCron(schedules map[string]string) (*cron.Cron, error) {
	log := config.GetLogger()
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	for name, j := range Jobs() {
		run := j.Run
		sched := j.Schedule
		if s, ok := schedules[name]; ok && s != "" {
			sched = s
		}
		if _, err := c.AddFunc(sched, func() { run() }); err != nil {
			return nil, fmt.Errorf("register job %s (%q): %w", name, sched, err)
		}
		log.WithFields(map[string]interface{}{"job": name, "schedule": sched}).Info("cron job scheduled")
	}
	c.Start()
	return c, nil
}
