package service

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"newsroom/app/config"
	"newsroom/app/models"
	"newsroom/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = oldStdout
	return <-done
}

func mockStdin(input string, f func()) {
	oldStdin := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r

	go func() {
		w.Write([]byte(input))
		w.Close()
	}()

	f()

	os.Stdin = oldStdin
}

// setupTestDB points the commands at a temporary database and backup directory
func setupTestDB(t *testing.T) config.Config {
	tmpDir := t.TempDir()
	env := map[string]string{
		"DB_PATH": filepath.Join(tmpDir, "db"),
	}
	cfg, err := config.FromEnv(config.ServicePosts, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	require.NoError(t, err)

	oldLoad, oldBackupDir := loadConfig, backupDir
	loadConfig = func(service string) (config.Config, error) {
		if service != config.ServicePosts {
			return config.FromEnv(service, func(string) (string, bool) { return "", false })
		}
		return cfg, nil
	}
	backupDir = filepath.Join(tmpDir, "backups")
	t.Cleanup(func() {
		loadConfig, backupDir = oldLoad, oldBackupDir
	})
	return cfg
}

func TestHandleCommand(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name           string
		service        string
		args           []string
		expectedOutput string
		expectedExit   int
	}{
		{
			name:           "no arguments",
			service:        "posts",
			args:           []string{},
			expectedOutput: "Usage: newsroom posts <command>\n\nCommands:",
			expectedExit:   1,
		},
		{
			name:           "help command",
			service:        "reviews",
			args:           []string{"help"},
			expectedOutput: "Usage: newsroom reviews <command>\n\nCommands:",
			expectedExit:   0,
		},
		{
			name:           "unknown command",
			service:        "posts",
			args:           []string{"unknown"},
			expectedOutput: "Unknown posts command: unknown",
			expectedExit:   1,
		},
		{
			name:           "restore without file",
			service:        "posts",
			args:           []string{"restore"},
			expectedOutput: "Error: backup file path required for restore",
			expectedExit:   1,
		},
		{
			name:           "unknown service",
			service:        "weather",
			args:           []string{"serve"},
			expectedOutput: "Error: unknown service",
			expectedExit:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exitCode int
			oldOsExit := osExit
			defer func() { osExit = oldOsExit }()
			osExit = func(code int) {
				exitCode = code
				panic("exit")
			}

			output := captureOutput(func() {
				defer func() {
					if r := recover(); r != nil {
						if r != "exit" {
							panic(r)
						}
					}
				}()
				HandleCommand(tt.service, tt.args)
			})

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestInitDb(t *testing.T) {
	cfg := setupTestDB(t)

	t.Run("initialize new database", func(t *testing.T) {
		output := captureOutput(func() {
			initDb(cfg.DBPath)
		})

		assert.Contains(t, output, "Database initialized successfully")
		assert.DirExists(t, cfg.DBPath)
	})

	t.Run("initialize existing database", func(t *testing.T) {
		output := captureOutput(func() {
			initDb(cfg.DBPath)
		})

		assert.Contains(t, output, "Database already exists")
	})
}

func TestClean(t *testing.T) {
	cfg := setupTestDB(t)

	t.Run("clean non-existent database", func(t *testing.T) {
		output := captureOutput(func() {
			clean(cfg.DBPath)
		})

		assert.Contains(t, output, "Database is already clean")
	})

	t.Run("clean existing database - cancelled", func(t *testing.T) {
		captureOutput(func() { initDb(cfg.DBPath) })

		var output string
		mockStdin("n\n", func() {
			output = captureOutput(func() {
				clean(cfg.DBPath)
			})
		})

		assert.Contains(t, output, "Operation cancelled")
		assert.DirExists(t, cfg.DBPath)
	})

	t.Run("clean existing database - confirmed", func(t *testing.T) {
		var output string
		mockStdin("y\n", func() {
			output = captureOutput(func() {
				clean(cfg.DBPath)
			})
		})

		assert.Contains(t, output, "Database cleaned successfully")
		assert.NoDirExists(t, cfg.DBPath)
	})
}

func TestBackupAndRestore(t *testing.T) {
	cfg := setupTestDB(t)

	t.Run("backup non-existent database", func(t *testing.T) {
		output := captureOutput(func() {
			backup(cfg.Service, cfg.DBPath)
		})

		assert.Contains(t, output, "No database exists to backup")
	})

	t.Run("restore non-existent backup", func(t *testing.T) {
		output := captureOutput(func() {
			restore(cfg.DBPath, "nonexistent.bak")
		})

		assert.Contains(t, output, "Backup file does not exist")
	})

	t.Run("restore empty backup", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.bak")
		require.NoError(t, os.WriteFile(empty, nil, 0644))

		output := captureOutput(func() {
			assert.Equal(t, 1, restore(cfg.DBPath, empty))
		})

		assert.Contains(t, output, "Backup file is empty")
	})

	t.Run("round trip", func(t *testing.T) {
		store, err := repositories.Open(cfg.DBPath, nil)
		require.NoError(t, err)
		post := &models.Post{Title: "Kept", Content: "Body", Author: "anna", Status: models.StatusDraft}
		require.NoError(t, repositories.NewBadgerPostRepository(store.DB()).Create(post))
		require.NoError(t, store.Close())

		output := captureOutput(func() {
			backup(cfg.Service, cfg.DBPath)
		})
		require.Contains(t, output, "Database backed up successfully")

		files, err := filepath.Glob(filepath.Join(backupDir, "posts_*.bak"))
		require.NoError(t, err)
		require.Len(t, files, 1)

		mockStdin("y\n", func() {
			output = captureOutput(func() {
				clean(cfg.DBPath)
			})
		})
		require.NoDirExists(t, cfg.DBPath)

		output = captureOutput(func() {
			assert.Equal(t, 0, restore(cfg.DBPath, files[0]))
		})
		assert.Contains(t, output, "Database restored successfully")

		store, err = repositories.Open(cfg.DBPath, nil)
		require.NoError(t, err)
		defer store.Close()
		restored, err := repositories.NewBadgerPostRepository(store.DB()).GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Kept", restored.Title)
	})

	t.Run("restore over existing database - cancelled", func(t *testing.T) {
		files, err := filepath.Glob(filepath.Join(backupDir, "posts_*.bak"))
		require.NoError(t, err)
		require.NotEmpty(t, files)

		var output string
		mockStdin("n\n", func() {
			output = captureOutput(func() {
				assert.Equal(t, 1, restore(cfg.DBPath, files[0]))
			})
		})

		assert.Contains(t, output, "Operation cancelled")
		assert.DirExists(t, cfg.DBPath)
	})
}
