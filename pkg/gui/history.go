package gui

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/mscrnt/vdash/pkg/db"
)

// History lists recorded drive sessions with per-session details.
type History struct {
	content fyne.CanvasObject
	dbPath  string
	log     *logrus.Logger

	// UI elements
	table    *widget.Table
	sessions []*db.Session

	// Filters
	maneuverFilter *widget.Select
	limitFilter    *widget.Select
}

// NewHistory creates a new session history view
func NewHistory(dbPath string, log *logrus.Logger) *History {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &History{
		dbPath:   dbPath,
		log:      log,
		sessions: make([]*db.Session, 0),
	}
	h.build()
	return h
}

// build creates the history UI
func (h *History) build() {
	h.maneuverFilter = widget.NewSelect([]string{"All", "straight", "left", "right"}, func(value string) {
		h.loadSessions()
	})
	h.maneuverFilter.SetSelected("All")

	h.limitFilter = widget.NewSelect([]string{"50", "100", "250", "500"}, func(value string) {
		h.loadSessions()
	})
	h.limitFilter.SetSelected("50")

	filterBar := container.NewHBox(
		widget.NewLabel("Maneuver:"),
		h.maneuverFilter,
		widget.NewLabel("Limit:"),
		h.limitFilter,
		widget.NewButton("Refresh", h.Refresh),
	)

	h.table = widget.NewTable(
		func() (int, int) {
			return len(h.sessions) + 1, 7 // +1 for header, 7 columns
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(i widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)

			if i.Row == 0 {
				// Header row
				headers := []string{"ID", "Label", "Maneuver", "Start Time", "Duration", "Samples", "Actions"}
				label.SetText(headers[i.Col])
				label.TextStyle = fyne.TextStyle{Bold: true}
			} else {
				// Data row
				session := h.sessions[i.Row-1]
				switch i.Col {
				case 0:
					label.SetText(strconv.FormatInt(session.ID, 10))
				case 1:
					label.SetText(session.Label)
				case 2:
					if session.Maneuver == "" {
						label.SetText("manual")
					} else {
						label.SetText(session.Maneuver)
					}
				case 3:
					label.SetText(session.StartTime.Format("2006-01-02 15:04:05"))
				case 4:
					if session.EndTime != nil {
						label.SetText(formatDuration(session.Duration()))
					} else {
						label.SetText("Recording...")
					}
				case 5:
					label.SetText(strconv.Itoa(session.Samples))
				case 6:
					label.SetText("View")
				}
			}
		},
	)

	// Set column widths
	h.table.SetColumnWidth(0, 50)  // ID
	h.table.SetColumnWidth(1, 180) // Label
	h.table.SetColumnWidth(2, 90)  // Maneuver
	h.table.SetColumnWidth(3, 150) // Start Time
	h.table.SetColumnWidth(4, 100) // Duration
	h.table.SetColumnWidth(5, 80)  // Samples
	h.table.SetColumnWidth(6, 100) // Actions

	h.table.OnSelected = func(id widget.TableCellID) {
		if id.Row > 0 && id.Col == 6 { // Actions column
			h.viewSessionDetails(h.sessions[id.Row-1])
		}
	}

	h.content = container.NewBorder(
		filterBar, nil, nil, nil,
		h.table,
	)

	h.loadSessions()
}

// Content returns the history content
func (h *History) Content() fyne.CanvasObject {
	return h.content
}

// Refresh reloads the session list
func (h *History) Refresh() {
	h.loadSessions()
}

// loadSessions loads sessions from the database
func (h *History) loadSessions() {
	database, err := db.Open(h.dbPath)
	if err != nil {
		h.log.WithError(err).Warn("Failed to open telemetry database")
		return
	}
	defer database.Close()

	filter := db.SessionFilter{}

	if h.maneuverFilter.Selected != "All" {
		filter.Maneuver = h.maneuverFilter.Selected
	}

	if limit, err := strconv.Atoi(h.limitFilter.Selected); err == nil {
		filter.Limit = limit
	}

	sessions, err := database.ListSessions(filter)
	if err != nil {
		h.log.WithError(err).Warn("Failed to list sessions")
		return
	}

	h.sessions = sessions
	h.table.Refresh()
}

// viewSessionDetails shows the per-channel summary of one session
func (h *History) viewSessionDetails(session *db.Session) {
	database, err := db.Open(h.dbPath)
	if err != nil {
		h.log.WithError(err).Warn("Failed to open telemetry database")
		return
	}
	defer database.Close()

	summary, err := database.ChannelSummary(session.ID)
	if err != nil {
		h.log.WithError(err).WithField("session", session.ID).Warn("Failed to load channel summary")
		return
	}

	content := container.NewVBox(
		widget.NewLabelWithStyle(fmt.Sprintf("Session #%d Details", session.ID), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		widget.NewLabel(fmt.Sprintf("Label: %s", session.Label)),
		widget.NewLabel(fmt.Sprintf("Gear: %s", session.Gear)),
		widget.NewLabel(fmt.Sprintf("Start Time: %s", session.StartTime.Format("2006-01-02 15:04:05"))),
	)

	if session.Maneuver != "" {
		content.Add(widget.NewLabel(fmt.Sprintf("Maneuver: %s", session.Maneuver)))
	}

	if session.EndTime != nil {
		content.Add(widget.NewLabel(fmt.Sprintf("End Time: %s", session.EndTime.Format("2006-01-02 15:04:05"))))
		content.Add(widget.NewLabel(fmt.Sprintf("Duration: %s", formatDuration(session.Duration()))))
	}

	content.Add(widget.NewLabel(fmt.Sprintf("Samples: %d", session.Samples)))

	if session.Error != "" {
		content.Add(widget.NewSeparator())
		content.Add(widget.NewLabel("Error:"))
		errorEntry := widget.NewMultiLineEntry()
		errorEntry.SetText(session.Error)
		errorEntry.Disable()
		content.Add(errorEntry)
	}

	if len(summary) > 0 {
		content.Add(widget.NewSeparator())
		content.Add(widget.NewLabel("Channels:"))

		summaryStr := ""
		for _, agg := range summary {
			summaryStr += fmt.Sprintf("%-20s min %.2f  avg %.2f  max %.2f %s\n",
				agg.Channel, agg.Min, agg.Avg, agg.Max, agg.Unit)
		}

		summaryEntry := widget.NewMultiLineEntry()
		summaryEntry.SetText(summaryStr)
		summaryEntry.TextStyle = fyne.TextStyle{Monospace: true}
		summaryEntry.Disable()
		content.Add(summaryEntry)
	}

	dialog := widget.NewCard("Session Details", "", container.NewScroll(content))
	dialog.Resize(fyne.NewSize(600, 500))

	popup := widget.NewModalPopUp(dialog, fyne.CurrentApp().Driver().AllWindows()[0].Canvas())
	popup.Show()
}

// formatDuration renders a duration in short human form.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
