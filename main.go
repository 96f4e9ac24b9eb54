package main

import (
	"fmt"
	"os"
	"strings"

	"newsroom/app/config"
	"newsroom/service"
)

const CliVersion = "1.0.0"

// Overridden in tests
var exit = os.Exit

func main() {
	RealMain()
}

func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("newsroom version %s\n", CliVersion)
	case config.ServicePosts, config.ServiceReviews, config.ServiceComments:
		exit(service.HandleCommand(cmd, os.Args[2:]))
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: newsroom <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  posts <subcommand>             Manage the post service (articles, status, notifications).
  reviews <subcommand>           Manage the review service.
  comments <subcommand>          Manage the comment service.

Service subcommands:
  serve                          Run the service until interrupted.
  init                           Initialize a new empty database.
  clean                          Remove the service database.
  backup                         Create a backup of the database.
  restore <file>                 Restore database from backup.
  help                           Show the service help.

Configuration is read from the environment and an optional .env file.`
	fmt.Println(helpText)
}
