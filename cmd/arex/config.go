package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ellis-chang/academic-reference-extractor/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  arex config                               # Show all config
  arex config cache-path                    # Get specific value
  arex config cache-path ~/arex/lookups.db  # Set value
  arex config s2-api-key KEY                # Set Semantic Scholar key

Keys:
  s2-api-key         Semantic Scholar API key (S2_API_KEY env wins)
  anthropic-api-key  Anthropic API key for LLM fallback (ANTHROPIC_API_KEY env wins)
  cache-path         Path to the author lookup cache database`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the JSON shape for showing all config values.
type ConfigResponse struct {
	S2APIKey        string `json:"s2_api_key"`
	AnthropicAPIKey string `json:"anthropic_api_key"`
	CachePath       string `json:"cache_path"`
}

// UpdateResponse confirms a config update.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		os.Exit(outputError(ExitConfigError, "loading config: %v", err))
	}

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("s2-api-key:        %s\n", maskKey(cfg.S2APIKey))
			fmt.Printf("anthropic-api-key: %s\n", maskKey(cfg.AnthropicAPIKey))
			fmt.Printf("cache-path:        %s\n", cfg.ResolveCachePath())
		} else {
			outputJSON(ConfigResponse{
				S2APIKey:        maskKey(cfg.S2APIKey),
				AnthropicAPIKey: maskKey(cfg.AnthropicAPIKey),
				CachePath:       cfg.ResolveCachePath(),
			})
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		var value string
		switch key {
		case "s2-api-key":
			value = maskKey(cfg.S2APIKey)
		case "anthropic-api-key":
			value = maskKey(cfg.AnthropicAPIKey)
		case "cache-path":
			value = cfg.ResolveCachePath()
		default:
			os.Exit(outputError(ExitError, "unknown configuration key: %s", args[0]))
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	switch key {
	case "s2-api-key":
		cfg.S2APIKey = value
	case "anthropic-api-key":
		cfg.AnthropicAPIKey = value
	case "cache-path":
		cfg.CachePath = config.ExpandTilde(value)
	default:
		os.Exit(outputError(ExitError, "unknown configuration key: %s", args[0]))
	}

	if err := cfg.Save(); err != nil {
		os.Exit(outputError(ExitError, "saving config: %v", err))
	}

	if humanOutput {
		fmt.Printf("Updated %s\n", key)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

// normalizeKey converts key formats (s2_api_key, S2-API-Key) to a consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}

// maskKey hides all but the last four characters of an API key.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
