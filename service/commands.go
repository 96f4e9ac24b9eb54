package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"newsroom/app/config"
	"newsroom/app/repositories"
)

// HandleCommand runs a subcommand of the named service and returns an exit code.
func HandleCommand(service string, args []string) int {
	if len(args) < 1 {
		printServiceHelp(service)
		osExit(1)
		return 1
	}
	if args[0] == "help" {
		printServiceHelp(service)
		return 0
	}

	cfg, err := loadConfig(service)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		osExit(1)
		return 1
	}
	return runCommand(cfg, args)
}

func runCommand(cfg config.Config, args []string) int {
	switch cmd := args[0]; cmd {
	case "serve":
		return RunAppServer(cfg)
	case "clean":
		clean(cfg.DBPath)
		return 0
	case "init":
		initDb(cfg.DBPath)
		return 0
	case "backup":
		backup(cfg.Service, cfg.DBPath)
		return 0
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			osExit(1)
			return 1
		}
		return restore(cfg.DBPath, args[1])
	case "help":
		printServiceHelp(cfg.Service)
		return 0
	default:
		fmt.Printf("Unknown %s command: %s\n\n", cfg.Service, cmd)
		printServiceHelp(cfg.Service)
		osExit(1)
		return 1
	}
}

func printServiceHelp(service string) {
	fmt.Printf(`Usage: newsroom %s <command>

Commands:
  serve             Run the %s service
  clean             Remove the service database
  init              Initialize a new empty database
  backup            Create a backup of the database in %s
  restore <file>    Restore database from backup
  help              Display this help message
`, service, service, backupDir)
}

// clean removes the database.
func clean(dbPath string) {
	if !exists(dbPath) {
		fmt.Println("Database is already clean (does not exist)")
		return
	}
	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return
	}
	if err := os.RemoveAll(dbPath); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return
	}
	fmt.Println("Database cleaned successfully")
}

// initDb creates an empty database.
func initDb(dbPath string) {
	if exists(dbPath) {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return
	}

	store, err := repositories.Open(dbPath, nil)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return
	}
	defer store.Close()

	fmt.Println("Database initialized successfully")
}

// backup writes a full badger backup to backupDir.
func backup(service, dbPath string) {
	if !exists(dbPath) {
		fmt.Println("No database exists to backup")
		return
	}
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return
	}

	store, err := repositories.Open(dbPath, nil)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return
	}
	defer store.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("%s_%d.bak", service, time.Now().Unix()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return
	}
	defer f.Close()

	if _, err := store.Backup(f); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return
	}
	fmt.Printf("Database backed up successfully to %s\n", backupFile)
}

// restore replaces the database with the contents of backupFile.
func restore(dbPath, backupFile string) int {
	fi, err := os.Stat(backupFile)
	if err != nil {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if exists(dbPath) {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dbPath); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}

	store, err := repositories.Open(dbPath, nil)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return store.Restore(f)
	}()
	if err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}
