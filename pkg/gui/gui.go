// Package gui implements the VDash control panel: a Fyne application
// with a live dashboard, session history and host diagnostics.
package gui

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"github.com/mscrnt/vdash/pkg/config"
	"github.com/mscrnt/vdash/pkg/vehicle"
)

// VDashGUI represents the main GUI application
type VDashGUI struct {
	app    fyne.App
	window fyne.Window
	log    *logrus.Logger

	cfg     *config.Config
	cfgPath string
	sim     *vehicle.Simulator

	// Main content containers
	dashboard   *Dashboard
	history     *History
	diagnostics *Diagnostics

	dbPath string
}

// NewVDashGUI creates the control panel around a loaded configuration.
func NewVDashGUI(app fyne.App, cfg *config.Config, cfgPath string, log *logrus.Logger) *VDashGUI {
	if log == nil {
		log = logrus.StandardLogger()
	}

	gui := &VDashGUI{
		app:     app,
		window:  app.NewWindow("VDash Control Panel"),
		log:     log,
		cfg:     cfg,
		cfgPath: cfgPath,
		sim:     vehicle.NewSimulator(cfg.Vehicle),
		dbPath:  DefaultDBPath(),
	}
	if cfg.DatabasePath != "" {
		gui.dbPath = cfg.DatabasePath
	}

	gui.setup()
	return gui
}

// setup initializes the GUI layout
func (g *VDashGUI) setup() {
	g.app.Settings().SetTheme(DashDarkTheme{})

	g.window.Resize(fyne.NewSize(1400, 900))
	g.window.CenterOnScreen()

	g.createMenu()

	g.dashboard = NewDashboard(g.cfg, g.sim, g.log)
	g.history = NewHistory(g.dbPath, g.log)
	g.diagnostics = NewDiagnostics()

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Dashboard", theme.HomeIcon(), g.dashboard.Content()),
		container.NewTabItemWithIcon("History", theme.ListIcon(), g.history.Content()),
		container.NewTabItemWithIcon("Diagnostics", theme.ComputerIcon(), g.diagnostics.Content()),
	)

	g.window.SetContent(tabs)

	// The current vehicle state is written back to the config file on
	// exit and restored on the next launch.
	g.window.SetCloseIntercept(func() {
		g.dashboard.Stop()
		g.diagnostics.Stop()
		g.saveState()
		g.window.Close()
	})
}

// createMenu creates the application menu
func (g *VDashGUI) createMenu() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save State", func() {
			g.saveState()
			dialog.ShowInformation("Save State", "Vehicle state saved to "+g.cfgPath, g.window)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			g.app.Quit()
		}),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Refresh", g.refresh),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", g.showAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, viewMenu, helpMenu)
	g.window.SetMainMenu(mainMenu)
}

// ShowAndRun displays the window and runs the application
func (g *VDashGUI) ShowAndRun() {
	g.dashboard.Start()
	g.diagnostics.Start()

	g.window.ShowAndRun()
}

func (g *VDashGUI) refresh() {
	g.history.Refresh()
}

// saveState persists the current vehicle state into the config file.
func (g *VDashGUI) saveState() {
	g.cfg.Vehicle = g.sim.Snapshot()
	if err := g.cfg.Save(g.cfgPath); err != nil {
		g.log.WithError(err).Warn("Failed to save configuration")
	}
}

func (g *VDashGUI) showAbout() {
	dialog.ShowInformation(
		"About VDash",
		"Vehicle Dashboard Simulator\n\n"+
			"Simulated telemetry, gear and maneuver controls,\n"+
			"and recorded drive sessions.",
		g.window,
	)
}

// DefaultDBPath returns the telemetry database location: VDASH_DB_PATH
// if set, otherwise ~/.vdash/vdash.db, falling back to the working
// directory when the home directory cannot be determined.
func DefaultDBPath() string {
	if p := os.Getenv("VDASH_DB_PATH"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "vdash.db"
	}
	return filepath.Join(home, ".vdash", "vdash.db")
}
