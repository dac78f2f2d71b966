// sapient is an MCP server exposing SAP GUI desktop automation to AI agents.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toni-ramchandani/sapient-mcp/internal/mcp"
	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

const defaultSAPLogonPath = `C:\Program Files (x86)\SAP\FrontEnd\SAPgui\saplogon.exe`

var cfg = &mcp.Config{}

var rootCmd = &cobra.Command{
	Use:   "sapient",
	Short: "MCP server for SAP GUI desktop automation",
	Long: `sapient is a Model Context Protocol (MCP) server that lets AI assistants
like Claude drive the SAP GUI desktop client: execute transactions, fill
forms, read screens, and capture evidence.

It talks to a RoboSAPiens bridge host running on the Windows machine with
SAP GUI, and exposes one sap_* tool per GUI action.

Examples:
  # Using environment variables
  SAPIENT_BRIDGE_URL=ws://winhost:8001/ws sapient

  # Using command-line flags
  sapient --bridge-url ws://winhost:8001/ws --caps screenshot,codegen

  # Auto-connect and log in at startup
  sapient --bridge-url ws://winhost:8001/ws --sap-server "DEV [S4H]" \
    --sap-client 100 --sap-user DEVELOPER --sap-password secret

  # Using .env file
  sapient  # reads from .env in current directory`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
	RunE:    runServer,
}

// stringFlag defines a string CLI flag
type stringFlag struct {
	name, shorthand, defaultValue, description string
}

// boolFlag defines a bool CLI flag
type boolFlag struct {
	name, shorthand, description string
	defaultValue                 bool
}

// sliceFlag defines a string slice CLI flag
type sliceFlag struct {
	name, description string
}

var stringFlags = []stringFlag{
	{"bridge-url", "", "", "WebSocket URL of the RoboSAPiens bridge host (e.g., ws://winhost:8001/ws)"},
	{"saplogon-path", "", defaultSAPLogonPath, "Path to saplogon.exe on the bridge host"},
	{"sap-server", "", "", "SAP server description for auto-connect (as shown in SAP Logon)"},
	{"sap-client", "", "", "SAP client number for auto-login"},
	{"sap-user", "u", "", "SAP username for auto-login"},
	{"sap-password", "p", "", "SAP password for auto-login"},
	{"output-dir", "o", "screenshots", "Directory for screenshots and generated scripts"},
}

var boolFlags = []boolFlag{
	{"no-screenshot-on-error", "", "Disable automatic screenshots when a tool fails", false},
	{"verbose", "v", "Enable verbose output to stderr", false},
}

var sliceFlags = []sliceFlag{
	{"caps", "Capability sets to enable: screenshot, codegen, advanced (comma-separated)"},
}

func init() {
	// Load .env file if it exists (ignore error - file is optional)
	_ = godotenv.Load()

	// Register string flags
	for _, f := range stringFlags {
		if f.shorthand != "" {
			rootCmd.PersistentFlags().StringP(f.name, f.shorthand, f.defaultValue, f.description)
		} else {
			rootCmd.PersistentFlags().String(f.name, f.defaultValue, f.description)
		}
		_ = viper.BindPFlag(f.name, rootCmd.PersistentFlags().Lookup(f.name))
	}

	// Register bool flags
	for _, f := range boolFlags {
		if f.shorthand != "" {
			rootCmd.PersistentFlags().BoolP(f.name, f.shorthand, f.defaultValue, f.description)
		} else {
			rootCmd.PersistentFlags().Bool(f.name, f.defaultValue, f.description)
		}
		_ = viper.BindPFlag(f.name, rootCmd.PersistentFlags().Lookup(f.name))
	}

	// Register slice flags
	for _, f := range sliceFlags {
		rootCmd.PersistentFlags().StringSlice(f.name, nil, f.description)
		_ = viper.BindPFlag(f.name, rootCmd.PersistentFlags().Lookup(f.name))
	}

	// Set up environment variable mapping
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.SetEnvPrefix("SAPIENT")
}

func runServer(cmd *cobra.Command, _ []string) error {
	// Resolve configuration with priority: flags > env vars > defaults
	resolveConfig(cmd)

	if err := validateConfig(); err != nil {
		return err
	}

	if cfg.Verbose {
		sapgui.SetLogOutput(os.Stderr)
		logStartupInfo()
	}

	server := mcp.NewServer(cfg)
	server.AutoConnect(context.Background())
	return server.ServeStdio()
}

// logStartupInfo outputs verbose startup information
func logStartupInfo() {
	fmt.Fprintf(os.Stderr, "[VERBOSE] Starting sapient server\n")
	fmt.Fprintf(os.Stderr, "[VERBOSE] Bridge URL: %s\n", cfg.BridgeURL)
	fmt.Fprintf(os.Stderr, "[VERBOSE] Output dir: %s\n", cfg.OutputDir)
	if len(cfg.Caps) > 0 {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Capabilities: %s\n", strings.Join(cfg.Caps, ", "))
	} else {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Capabilities: core only\n")
	}
	if cfg.SAPServer != "" {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Auto-connect: %s\n", cfg.SAPServer)
		if cfg.SAPUser != "" {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Auto-login: client %s, user %s\n", cfg.SAPClient, cfg.SAPUser)
		}
	}
	if !cfg.ScreenshotOnError {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Screenshot-on-error disabled\n")
	}
}

func resolveConfig(cmd *cobra.Command) {
	resolveString(cmd, "bridge-url", "BRIDGE_URL", &cfg.BridgeURL)
	resolveString(cmd, "saplogon-path", "SAPLOGON_PATH", &cfg.SAPLogonPath)
	resolveString(cmd, "sap-server", "SAP_SERVER", &cfg.SAPServer)
	resolveString(cmd, "sap-client", "SAP_CLIENT", &cfg.SAPClient)
	resolveString(cmd, "sap-user", "SAP_USER", &cfg.SAPUser)
	resolveString(cmd, "sap-password", "SAP_PASSWORD", &cfg.SAPPassword)
	resolveString(cmd, "output-dir", "OUTPUT_DIR", &cfg.OutputDir)
	resolveStringSlice(cmd, "caps", "CAPS", &cfg.Caps)

	if cfg.SAPLogonPath == "" {
		cfg.SAPLogonPath = defaultSAPLogonPath
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "screenshots"
	}

	var noScreenshot bool
	resolveBool(cmd, "no-screenshot-on-error", "NO_SCREENSHOT_ON_ERROR", &noScreenshot)
	cfg.ScreenshotOnError = !noScreenshot

	resolveBool(cmd, "verbose", "VERBOSE", &cfg.Verbose)
}

// Helper functions for config resolution

func resolveBool(cmd *cobra.Command, flag, envKey string, target *bool) {
	if !cmd.Flags().Changed(flag) {
		*target = viper.GetBool(envKey)
	} else {
		*target, _ = cmd.Flags().GetBool(flag)
	}
}

func resolveString(cmd *cobra.Command, flag, envKey string, target *string) {
	if !cmd.Flags().Changed(flag) {
		if v := viper.GetString(envKey); v != "" {
			*target = v
		} else {
			*target, _ = cmd.Flags().GetString(flag)
		}
	} else {
		*target, _ = cmd.Flags().GetString(flag)
	}
}

func resolveStringSlice(cmd *cobra.Command, flag, envKey string, target *[]string) {
	if !cmd.Flags().Changed(flag) {
		if v := viper.GetString(envKey); v != "" {
			*target = splitCSV(v)
		} else {
			*target, _ = cmd.Flags().GetStringSlice(flag)
		}
	} else {
		*target, _ = cmd.Flags().GetStringSlice(flag)
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateConfig() error {
	if cfg.BridgeURL == "" {
		return fmt.Errorf("bridge URL is required. Use --bridge-url flag or SAPIENT_BRIDGE_URL environment variable")
	}
	for _, cap := range cfg.Caps {
		switch strings.ToLower(strings.TrimSpace(cap)) {
		case mcp.CapScreenshot, mcp.CapCodegen, mcp.CapAdvanced:
		default:
			return fmt.Errorf("unknown capability %q (valid: screenshot, codegen, advanced)", cap)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
