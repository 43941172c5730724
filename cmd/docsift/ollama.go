package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/home"
	"github.com/docsift/docsift/internal/ollamactl"
)

var ollamaCmd = &cobra.Command{
	Use:   "ollama",
	Short: "Manage the local Ollama container",
	Long: `Manage the Ollama inference container lifecycle.

The extraction pipeline talks to a locally running Ollama server. These
commands run that server in a Docker container with models persisted to
~/.docsift/models/.

Examples:
  docsift ollama start    # Start the Ollama container
  docsift ollama stop     # Stop the container (models preserved)
  docsift ollama status   # Check container status
  docsift ollama pull     # Pull the configured model
  docsift ollama logs     # View container logs`,
}

var ollamaStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Ollama container",
	Long: `Start the Ollama container.

If the container doesn't exist, it will be created and started.
If it exists but is stopped, it will be started.
If it's already running, this is a no-op.

Models are persisted to ~/.docsift/models/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Starting Ollama...")
		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("failed to start Ollama: %w", err)
		}

		fmt.Printf("Ollama is running at %s\n", mgr.URL())
		return nil
	},
}

var ollamaStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the Ollama container",
	Long: `Stop the Ollama container.

This stops the container but preserves downloaded models. Use
'docsift ollama start' to restart it later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Stopping Ollama...")
		if err := mgr.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop Ollama: %w", err)
		}

		fmt.Println("Ollama stopped")
		return nil
	},
}

var ollamaStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Ollama container status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		status, err := mgr.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		switch status {
		case ollamactl.StatusRunning:
			fmt.Printf("Status: %s\n", status)
			fmt.Printf("URL: %s\n", mgr.URL())
			if err := mgr.WaitReady(ctx, 3*time.Second); err != nil {
				fmt.Printf("Health: unhealthy (%v)\n", err)
			} else {
				fmt.Println("Health: healthy")
			}
		case ollamactl.StatusStopped:
			fmt.Printf("Status: %s (use 'docsift ollama start' to start)\n", status)
		case ollamactl.StatusNotFound:
			fmt.Printf("Status: %s (use 'docsift ollama start' to create)\n", status)
		default:
			fmt.Printf("Status: %s\n", status)
		}

		return nil
	},
}

var ollamaLogsTail string

var ollamaLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show Ollama container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		logs, err := mgr.Logs(cmd.Context(), ollamaLogsTail)
		if err != nil {
			return fmt.Errorf("failed to get logs: %w", err)
		}

		fmt.Print(logs)
		return nil
	},
}

var ollamaRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the Ollama container",
	Long: `Remove the Ollama container.

This stops and removes the container. Models in ~/.docsift/models/
are NOT deleted - only the container is removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Removing Ollama container...")
		if err := mgr.Remove(cmd.Context()); err != nil {
			return fmt.Errorf("failed to remove container: %w", err)
		}

		fmt.Println("Ollama container removed (models preserved)")
		return nil
	},
}

var ollamaPullCmd = &cobra.Command{
	Use:   "pull [model]",
	Short: "Pull a model into the running Ollama server",
	Long: `Pull a model into the running Ollama server.

Without an argument, pulls the model configured under ollama.model.
The server must already be running.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		model := ""
		if len(args) == 1 {
			model = args[0]
		} else {
			cm, err := loadConfig()
			if err != nil {
				return err
			}
			model = cm.Get().Ollama.Model
		}

		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		if err := mgr.WaitReady(ctx, 5*time.Second); err != nil {
			return fmt.Errorf("Ollama is not running (use 'docsift ollama start'): %w", err)
		}

		fmt.Printf("Pulling %s (this can take a while)...\n", model)
		if err := mgr.PullModel(ctx, model); err != nil {
			return fmt.Errorf("failed to pull model: %w", err)
		}

		fmt.Printf("Model %s is ready\n", model)
		return nil
	},
}

var ollamaWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for Ollama to be ready",
	Long: `Wait for the Ollama server to accept requests.

Useful in scripts to ensure the server is fully started before
running extractions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := getOllamaManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		timeout, _ := cmd.Flags().GetDuration("timeout")
		fmt.Printf("Waiting for Ollama (timeout: %s)...\n", timeout)

		if err := mgr.WaitReady(cmd.Context(), timeout); err != nil {
			return fmt.Errorf("Ollama not ready: %w", err)
		}

		fmt.Println("Ollama is ready")
		return nil
	},
}

func init() {
	ollamaCmd.AddCommand(ollamaStartCmd)
	ollamaCmd.AddCommand(ollamaStopCmd)
	ollamaCmd.AddCommand(ollamaStatusCmd)
	ollamaCmd.AddCommand(ollamaLogsCmd)
	ollamaCmd.AddCommand(ollamaRemoveCmd)
	ollamaCmd.AddCommand(ollamaPullCmd)
	ollamaCmd.AddCommand(ollamaWaitCmd)

	ollamaLogsCmd.Flags().StringVar(&ollamaLogsTail, "tail", "100", "Number of lines to show from the end")
	ollamaWaitCmd.Flags().Duration("timeout", 30*time.Second, "Timeout waiting for Ollama")

	rootCmd.AddCommand(ollamaCmd)
}

// getOllamaManager creates a container manager with models persisted under
// the docsift home directory.
func getOllamaManager() (*ollamactl.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}

	return ollamactl.NewManager(ollamactl.Config{
		ModelsPath: h.ModelsPath(),
	})
}
