package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tarius/internal/app"
	"tarius/internal/config"
	"tarius/internal/logging"
)

// Version is the CLI version string.
const Version = "1.0.0"

// Color definitions for terminal output
var (
	blue   = color.New(color.FgBlue).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// CLI holds the command line interface state
type CLI struct {
	config     config.Config
	controller *app.Controller
	logger     logging.Logger

	configPath string
	dataDir    string
	verbose    bool
}

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	cli := &CLI{}

	rootCmd := &cobra.Command{
		Use:   "tarius",
		Short: "Personal AI assistant with a rule-based secretary",
		Long: fmt.Sprintf(`%s

Tarius is a local personal assistant. A rule-based secretary turns natural
language into calendar events and reminder tasks, and an AI twin handles
casual conversation. Everything is stored on disk; no network access.

%s
  tarius                                        # Interactive mode
  tarius "schedule team sync tomorrow at 3pm"   # Single utterance
  tarius events list                            # List stored events
  tarius tasks done "send report"               # Mark tasks completed
  tarius config show                            # Show configuration`,
			bold("Tarius "+Version),
			bold("EXAMPLES:")),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.initialize(); err != nil {
				return err
			}
			defer cli.shutdown()

			if len(args) > 0 {
				return cli.runSingleUtterance(strings.Join(args, " "))
			}
			return cli.runInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cli.configPath, "config", "", "Config file path (default <data-dir>/config.json)")
	rootCmd.PersistentFlags().StringVar(&cli.dataDir, "data-dir", "", "Override data directory")
	rootCmd.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newEventsCommand(cli))
	rootCmd.AddCommand(newTasksCommand(cli))
	rootCmd.AddCommand(newConfigCommand(cli))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// initialize loads configuration and builds the controller.
func (cli *CLI) initialize() error {
	var opts []config.Option
	if cli.configPath != "" {
		opts = append(opts, config.WithConfigPath(cli.configPath))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cli.dataDir != "" {
		cfg.DataDir = cli.dataDir
	}
	cli.config = cfg

	fileLogger := logging.NewComponentLogger("CLI")
	fileLogger.SetLevel(logging.ParseLevel(cfg.LogLevel))
	cli.logger = fileLogger

	controller, err := app.New(cfg, cli.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize assistant: %w", err)
	}
	cli.controller = controller
	return nil
}

func (cli *CLI) shutdown() {
	if cli.controller == nil {
		return
	}
	if err := cli.controller.Shutdown(); err != nil {
		fmt.Printf("%s failed to flush state: %v\n", yellow("Warning:"), err)
	}
}

// runSingleUtterance processes one utterance and prints the response.
func (cli *CLI) runSingleUtterance(input string) error {
	if cli.verbose {
		fmt.Printf("%s Processing: %s\n", blue(">"), input)
	}
	response := cli.controller.ProcessInput(input)
	fmt.Println(response)
	return nil
}

// newEventsCommand creates the events subcommand
func newEventsCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Calendar event management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored events",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.initialize(); err != nil {
				return err
			}
			defer cli.shutdown()

			events := cli.controller.Calendar().Events()
			if len(events) == 0 {
				fmt.Println(gray("No events scheduled."))
				return nil
			}
			fmt.Printf("%s\n", bold("Events:"))
			for _, event := range events {
				fmt.Printf("  %s %s %s\n",
					blue(event.Time.Format("2006-01-02 15:04")),
					event.Title,
					gray(event.Description))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <title>",
		Short: "Remove all events with the given title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.initialize(); err != nil {
				return err
			}
			defer cli.shutdown()

			removed, err := cli.controller.Calendar().Remove(args[0])
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Printf("%s no event titled %q\n", yellow("Not found:"), args[0])
				return nil
			}
			fmt.Printf("%s Removed %d event(s)\n", green("OK"), removed)
			return nil
		},
	})

	return cmd
}

// newTasksCommand creates the tasks subcommand
func newTasksCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Reminder task management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.initialize(); err != nil {
				return err
			}
			defer cli.shutdown()

			tasks := cli.controller.Tasks().Tasks()
			if len(tasks) == 0 {
				fmt.Println(gray("No tasks."))
				return nil
			}
			fmt.Printf("%s\n", bold("Tasks:"))
			for _, task := range tasks {
				marker := "[ ]"
				if task.Completed {
					marker = green("[x]")
				}
				fmt.Printf("  %s %s %s\n",
					marker,
					task.Description,
					gray(task.DueTime.Format("2006-01-02 15:04")))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "done <description>",
		Short: "Mark all tasks with the given description completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.initialize(); err != nil {
				return err
			}
			defer cli.shutdown()

			completed, err := cli.controller.Tasks().Complete(args[0])
			if err != nil {
				return err
			}
			if completed == 0 {
				fmt.Printf("%s no task described %q\n", yellow("Not found:"), args[0])
				return nil
			}
			fmt.Printf("%s Completed %d task(s)\n", green("OK"), completed)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <description>",
		Short: "Remove all tasks with the given description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.initialize(); err != nil {
				return err
			}
			defer cli.shutdown()

			removed, err := cli.controller.Tasks().Remove(args[0])
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Printf("%s no task described %q\n", yellow("Not found:"), args[0])
				return nil
			}
			fmt.Printf("%s Removed %d task(s)\n", green("OK"), removed)
			return nil
		},
	})

	return cmd
}

// newConfigCommand creates the config subcommand
func newConfigCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []config.Option
			if cli.configPath != "" {
				opts = append(opts, config.WithConfigPath(cli.configPath))
			}
			cfg, err := config.Load(opts...)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n", bold("Current Configuration:"))
			fmt.Printf("  %s: %s\n", bold("User Name"), blue(cfg.UserName))
			fmt.Printf("  %s: %s\n", bold("Assistant Name"), blue(cfg.AssistantName))
			fmt.Printf("  %s: %s\n", bold("Data Directory"), blue(cfg.DataDir))
			fmt.Printf("  %s: %s\n", bold("Proactive Reminders"), blue(fmt.Sprintf("%t", cfg.ProactiveReminders)))
			fmt.Printf("  %s: %s\n", bold("Max Recent Messages"), blue(fmt.Sprintf("%d", cfg.MaxRecentMessages)))
			fmt.Printf("  %s: %s\n", bold("Log Level"), blue(cfg.LogLevel))
			fmt.Printf("  %s: %s\n", bold("Config File"), gray(cfg.Path()))
			return nil
		},
	})

	return cmd
}

// newVersionCommand creates the version subcommand
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Version: %s\n", Version)
		},
	}
}
