package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
	"github.com/toni-ramchandani/sapient-mcp/pkg/scripting"
)

var scriptCmd = &cobra.Command{
	Use:   "script [file.lua]",
	Short: "Run a Lua automation script or start a REPL",
	Long: `Run SAP GUI automation from Lua, either a script file or an
interactive REPL.

Scripts drive the same session as the MCP server: navigate transactions,
fill forms, read screens, and capture evidence.

Examples:
  # Interactive REPL
  sapient script --bridge-url ws://winhost:8001/ws

  # Run a script file
  sapient script create_po.lua --bridge-url ws://winhost:8001/ws

Script example (create_po.lua):
  openSAP()
  connectToServer("DEV [S4H]")
  fill("User", "DEVELOPER")
  fill("Password", os.getenv("SAP_PASSWORD"))
  sendKey("Enter")
  tcode("/nME21N")
  print(windowTitle())`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	resolveConfig(cmd)

	if err := validateConfig(); err != nil {
		return err
	}

	if cfg.Verbose {
		sapgui.SetLogOutput(os.Stderr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C gracefully
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt, cleaning up...")
		cancel()
	}()

	bridgeURL := cfg.BridgeURL
	session := sapgui.NewSession(cfg.OutputDir, func(ctx context.Context) (sapgui.Engine, error) {
		return sapgui.DialBridge(ctx, bridgeURL)
	})

	engine := scripting.NewLuaEngine(session)
	defer engine.Close()
	engine.SetContext(ctx)

	if len(args) == 1 {
		if err := engine.ExecuteFile(args[0]); err != nil {
			return fmt.Errorf("script failed: %w", err)
		}
		return nil
	}

	engine.REPL()
	return nil
}
