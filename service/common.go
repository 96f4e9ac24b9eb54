package service

import (
	"fmt"
	"os"

	"newsroom/app/config"
)

var osExit = os.Exit

// Swapped in tests
var (
	loadConfig = config.Load
	backupDir  = "data/backups"
)

// confirm asks a y/N question on stdin
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
