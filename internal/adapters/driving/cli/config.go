package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change scandoc configuration.

Well-known keys:
  ai.provider      openai (default), anthropic, or ollama
  ai.api_key       API key for the summarization endpoint
  ai.model         model name (provider default when unset)
  ai.base_url      override the provider endpoint
  summary.bullets  default bullet count for summaries
  data.dir         data directory for the database and images`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Set the API key (prompted, not echoed)",
	RunE:  runConfigSetKey,
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Check that the summarization endpoint is reachable",
	RunE:  runConfigTest,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configTestCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	cmd.Printf("  ai.provider:     %s\n", orDefault(configStore.GetString("ai.provider"), "openai"))
	cmd.Printf("  ai.api_key:      %s\n", maskAPIKey(configStore.GetString("ai.api_key")))
	cmd.Printf("  ai.model:        %s\n", orDefault(configStore.GetString("ai.model"), "provider default"))
	cmd.Printf("  summary.bullets: %s\n", orDefault(intString(configStore.GetInt("summary.bullets")), "6"))
	cmd.Printf("  data.dir:        %s\n", orDefault(configStore.GetString("data.dir"), "~/.scandoc/data"))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	// Store integers as integers so GetInt works.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	cmd.Printf("Set %s.\n", key)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Print("API key: ")
	key := readSecret()
	cmd.Println()

	if key == "" {
		return errors.New("no key entered")
	}

	if err := configStore.Set("ai.api_key", key); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	cmd.Println("API key saved.")
	return nil
}

func runConfigTest(cmd *cobra.Command, _ []string) error {
	if generator == nil {
		return errors.New("summarization client not configured; set an API key first")
	}

	cmd.Printf("Checking endpoint with model %s...\n", generator.ModelName())
	if err := generator.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("endpoint check failed: %w", err)
	}
	cmd.Println("Endpoint reachable.")
	return nil
}

// readSecret reads a line from stdin without echo when possible.
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback + " (default)"
	}
	return value
}

func intString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
