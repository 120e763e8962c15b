package client

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"vista/internal/config"
)

// UI owns the window and the current view-model. All mutation goes through
// apply: derive a new State, render it, done.
type UI struct {
	api     *APIClient
	fyneApp fyne.App
	win     fyne.Window
	state   State
}

func Run(cfg config.ClientConfig) {
	api := NewAPIClient(cfg.BaseURL, time.Duration(cfg.TimeoutSecond)*time.Second)

	a := fyneapp.New()
	win := a.NewWindow("V.I.S.T.A. Desktop")
	win.Resize(fyne.NewSize(1100, 700))

	ui := &UI{api: api, fyneApp: a, win: win}
	ui.apply(State{})

	win.ShowAndRun()
}

// apply swaps in the next view-model and re-renders the whole window from
// it.
func (u *UI) apply(next State) {
	u.state = next
	if next.LoggedIn() {
		u.win.SetContent(u.buildDashboard(next))
	} else {
		u.win.SetContent(u.buildLogin(next))
	}
}

func (u *UI) buildLogin(state State) fyne.CanvasObject {
	title := widget.NewLabelWithStyle("V.I.S.T.A. System Gateway",
		fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabelWithStyle("CHEMICAL TELEMETRY",
		fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})

	username := widget.NewEntry()
	username.SetPlaceHolder("Username")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Password")

	status := widget.NewLabel(state.Status)
	status.Wrapping = fyne.TextWrapWord

	loginBtn := widget.NewButton("Access Dashboard", func() {
		u.login(username.Text, password.Text)
	})
	password.OnSubmitted = func(string) {
		u.login(username.Text, password.Text)
	}

	form := container.NewVBox(
		title,
		subtitle,
		widget.NewSeparator(),
		username,
		password,
		status,
		loginBtn,
	)
	return container.NewCenter(container.NewGridWrap(fyne.NewSize(360, 320), form))
}

func (u *UI) login(username, password string) {
	if username == "" || password == "" {
		u.apply(u.state.WithStatus("Fields cannot be empty"))
		return
	}

	result, err := u.api.Login(context.Background(), username, password)
	if err != nil {
		u.apply(u.state.WithStatus(err.Error()))
		return
	}

	next := State{User: result, Status: "Signed in"}
	if entries, err := u.api.History(context.Background()); err == nil {
		next = next.WithHistory(entries)
	} else {
		next = next.WithStatus("Signed in, but history unavailable: " + err.Error())
	}
	u.apply(next)
}

func (u *UI) buildDashboard(state State) fyne.CanvasObject {
	sidebar := u.buildSidebar(state)

	status := widget.NewLabel(state.Status)
	status.Wrapping = fyne.TextWrapWord

	cards := u.buildMetricCards(state)

	var chart fyne.CanvasObject
	if state.Summary != nil && len(state.Summary.Distribution) > 0 {
		chart = widget.NewCard("Equipment Distribution", "",
			NewBarChart(state.Summary.Distribution))
	} else {
		chart = widget.NewCard("Equipment Distribution", "",
			widget.NewLabel("Import a dataset to see the breakdown."))
	}

	main := container.NewVBox(status, cards, chart)
	return container.NewBorder(nil, nil, sidebar, nil, container.NewPadded(main))
}

func (u *UI) buildSidebar(state State) fyne.CanvasObject {
	logo := widget.NewLabelWithStyle("V.I.S.T.A.",
		fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	user := widget.NewLabelWithStyle(state.User.Username,
		fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	uploadBtn := widget.NewButton("Import Dataset", u.pickAndUpload)
	logoutBtn := widget.NewButton("Log Out", u.logout)

	historyTitle := widget.NewLabelWithStyle("RECENT UPLOADS",
		fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})

	historyBox := container.NewVBox()
	for _, entry := range state.History {
		label := widget.NewLabel(fmt.Sprintf("%s\n%s",
			entry.Name, entry.Date.Format("2006-01-02 15:04")))
		label.Wrapping = fyne.TextWrapWord
		historyBox.Add(label)
	}
	if len(state.History) == 0 {
		historyBox.Add(widget.NewLabel("No uploads yet"))
	}

	return container.NewBorder(
		container.NewVBox(logo, user, uploadBtn, widget.NewSeparator(), historyTitle),
		logoutBtn,
		nil, nil,
		container.NewVScroll(historyBox),
	)
}

func (u *UI) buildMetricCards(state State) fyne.CanvasObject {
	sum := state.Summary
	total, flow, press, temp := "--", "--", "--", "--"
	if sum != nil {
		total = fmt.Sprintf("%d", sum.TotalCount)
		flow = fmt.Sprintf("%.2f", sum.Averages.Flowrate)
		press = fmt.Sprintf("%.2f", sum.Averages.Pressure)
		temp = fmt.Sprintf("%.2f", sum.Averages.Temperature)
	}

	return container.NewGridWithColumns(4,
		metricCard("Total Equipment", total),
		metricCard("Avg Flowrate", flow),
		metricCard("Avg Pressure", press),
		metricCard("Avg Temp", temp),
	)
}

func metricCard(title, value string) fyne.CanvasObject {
	big := canvas.NewText(value, color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff})
	big.TextSize = 28
	big.TextStyle = fyne.TextStyle{Bold: true}
	big.Alignment = fyne.TextAlignCenter
	return widget.NewCard(title, "", container.NewCenter(big))
}

func (u *UI) pickAndUpload() {
	picker := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			u.apply(u.state.WithStatus("File selection failed: " + err.Error()))
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		u.upload(reader.URI().Name(), reader)
	}, u.win)
	picker.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	picker.Show()
}

func (u *UI) upload(fileName string, reader fyne.URIReadCloser) {
	sum, err := u.api.Upload(context.Background(), fileName, reader)
	if err != nil {
		u.apply(u.state.WithStatus("Upload failed: " + err.Error()))
		return
	}

	next := u.state.WithSummary(sum).WithStatus(fmt.Sprintf("Processed %s", fileName))
	if entries, err := u.api.History(context.Background()); err == nil {
		next = next.WithHistory(entries)
	}
	u.apply(next)
}

func (u *UI) logout() {
	if err := u.api.Logout(context.Background()); err != nil {
		u.apply(u.state.WithStatus("Logout failed: " + err.Error()))
		return
	}
	u.apply(State{Status: "Signed out"})
}
