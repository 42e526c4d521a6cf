package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
)

func guiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Launch the graphical dashboard",
		Long: `Launch the VDash graphical dashboard.

The GUI provides:
- Live vehicle telemetry dashboard with severity-colored gauges
- Gear, maneuver, pedal and steering controls
- Recorded session history
- Host diagnostics

Note: The GUI requires a graphical environment (X11, Wayland, or Windows/macOS desktop).`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !hasGUIEnvironment() {
				return fmt.Errorf("GUI environment not detected. The GUI requires a graphical desktop environment")
			}

			guiBinary := "vdash-gui"
			if runtime.GOOS == "windows" {
				guiBinary += ".exe"
			}

			// Check next to the CLI binary first.
			execPath, err := os.Executable()
			if err == nil {
				dir := filepath.Dir(execPath)
				guiPath := filepath.Join(dir, guiBinary)
				if _, err := os.Stat(guiPath); err == nil {
					return runGUI(guiPath)
				}
			}

			guiPath, err := exec.LookPath(guiBinary)
			if err == nil {
				return runGUI(guiPath)
			}

			return fmt.Errorf("GUI binary '%s' not found. Please ensure it's built and in your PATH", guiBinary)
		},
	}

	return cmd
}

// hasGUIEnvironment checks if a GUI environment is available
func hasGUIEnvironment() bool {
	switch runtime.GOOS {
	case "windows":
		return true
	case "darwin":
		return true
	case "linux", "freebsd", "openbsd", "netbsd":
		// Check for X11 or Wayland
		display := os.Getenv("DISPLAY")
		waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
		return display != "" || waylandDisplay != ""
	default:
		return false
	}
}

// runGUI launches the GUI binary
func runGUI(path string) error {
	cmd := exec.Command(path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start GUI: %w", err)
	}

	fmt.Printf("GUI launched (PID: %d)\n", cmd.Process.Pid)
	fmt.Println("The GUI is running in a separate window.")

	// Don't wait for the GUI to finish
	return nil
}
