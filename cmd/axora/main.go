// Package main provides the Axora Enigma CLI application entry point.
// Axora Enigma is a session-centred chat client for Google's generative
// models with persistent history, chat modes and project memory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"axora/internal/logger"
)

var (
	logLevel string
	logFile  string
	testMode bool
	dataDir  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "axora",
	Short: "Axora Enigma - session-centred AI chat",
	Long: `Axora Enigma is a chat client for Google's generative models.
Conversations are persisted locally for ten days, organised by chat mode
and optional project memory, and can be exported to text, markdown or JSON.`,
	Run: runChat, // Default behavior is to start the interactive chat
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: warn]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&testMode, "test-mode", false, "Run with an in-memory session store")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for the session database [default: ~/.local/share/axora]")

	// Bind flags to viper
	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-file flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("test-mode", rootCmd.PersistentFlags().Lookup("test-mode")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding test-mode flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding data-dir flag: %v\n", err)
		os.Exit(1)
	}

	// Configure logger before any command execution
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// Configure logger with CLI flags
	if err := logger.Configure(logLevel, logFile, testMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

// exitf prints a formatted error to stderr and exits. Subcommands use it
// for failures the user has to act on, like a missing session ID.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
