//go:build cli
// +build cli

package main

import (
	_ "marketstock.GO/cron/jobs"

	"marketstock.GO/cmd"
	"marketstock.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
