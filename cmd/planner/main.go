// Command planner places the tasks of a YAML plan request into time blocks.
package main

import (
	"os"
)

func main() {
	if errExecute := newRootCmd().Execute(); errExecute != nil {
		os.Exit(1)
	}
}
