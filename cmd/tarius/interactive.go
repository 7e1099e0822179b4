package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"tarius/internal/scheduler"
)

// runInteractive runs a REPL with readline support (arrow keys, history).
// While the loop runs, a background scheduler polls for due events and tasks
// and prints reminders above the prompt.
func (cli *CLI) runInteractive() error {
	fmt.Printf("%s - Personal AI Assistant\n", bold(cli.config.AssistantName))
	fmt.Printf("Hello %s! Ask me to schedule events, set reminders, or just chat.\n", cli.config.UserName)
	fmt.Println("Type 'help' for commands, 'exit' or 'quit' to leave.")
	fmt.Println()

	homeDir, _ := os.UserHomeDir()
	historyFile := filepath.Join(homeDir, ".tarius_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,

		Stdin:  readline.NewCancelableStdin(os.Stdin),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(
		scheduler.Config{Enabled: cli.config.ProactiveReminders},
		cli.controller,
		scheduler.NotifierFunc(func(_ context.Context, message string) error {
			// Write through readline so the reminder lands above the prompt.
			_, err := rl.Write([]byte(yellow("\n[Reminder] "+message) + "\n"))
			return err
		}),
		cli.logger,
	)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminder scheduler: %w", err)
	}
	defer sched.Stop()

	for {
		input, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(input) == 0 {
				fmt.Println("\nGoodbye!")
				break
			}
			continue
		} else if err == io.EOF {
			fmt.Println("\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" || input == "q" {
			fmt.Println("Goodbye!")
			break
		}
		if input == "help" {
			printHelp()
			continue
		}

		response := cli.controller.ProcessInput(input)
		fmt.Printf("\n%s\n\n", green(response))
	}

	return nil
}

func printHelp() {
	fmt.Printf("\n%s\n", bold("What I can do:"))
	fmt.Println("  Schedule events:   \"schedule team meeting tomorrow at 3:00pm\"")
	fmt.Println("  Set reminders:     \"remind me to call mom tomorrow\"")
	fmt.Println("  Chat:              \"hello\", \"tell me a joke\", \"what time is it?\"")
	fmt.Println()
	fmt.Printf("%s\n", bold("Commands:"))
	fmt.Println("  help         Show this message")
	fmt.Println("  exit, quit   Leave the assistant")
	fmt.Println()
}
