package main

import (
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"github.com/mscrnt/vdash/pkg/config"
	"github.com/mscrnt/vdash/pkg/gui"
)

func main() {
	// Fix locale issue in WSL/minimal environments
	// Set a minimal but valid locale that Fyne will accept
	lang := os.Getenv("LANG")
	if lang == "" || lang == "C" {
		os.Setenv("LANG", "en_US.UTF-8")
		os.Setenv("LC_ALL", "en_US.UTF-8")
	}

	log := logrus.StandardLogger()

	cfgPath := config.DefaultPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.WithError(err).Warn("Using default configuration")
	}

	myApp := app.NewWithID("com.vdash.simulator")
	myApp.SetIcon(theme.ComputerIcon())

	vdashGUI := gui.NewVDashGUI(myApp, cfg, cfgPath, log)
	vdashGUI.ShowAndRun()
}
