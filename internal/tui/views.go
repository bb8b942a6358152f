package tui

import (
	"fmt"
	"strings"

	"github.com/chapelworks/mediasync/internal/collection"
	"github.com/chapelworks/mediasync/internal/view"
	"github.com/chapelworks/mediasync/models"
)

func (m appModel) View() string {
	switch m.mode {
	case screenDetail:
		return appStyle.Render(m.viewDetail())
	case screenLogin:
		return appStyle.Render(m.viewLogin())
	case screenUpload:
		return appStyle.Render(m.viewUpload())
	case screenConfirmDelete:
		return appStyle.Render(m.viewConfirmDelete())
	default:
		return appStyle.Render(m.viewList())
	}
}

func (m appModel) viewHeader() string {
	var tabs []string
	for i, name := range tabNames {
		if i == m.tab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, name)
		}
	}

	header := titleStyle.Render("ChapelWorks") + "  " + strings.Join(tabs, " | ")
	if m.services.Session.IsAuthenticated() {
		identity := m.services.Session.Current().Identity
		who := identity.Email
		if identity.Elevated() {
			who += " (admin)"
		}
		header += "  " + helpStyle.Render("["+who+"]")
	}
	return header
}

func (m appModel) viewList() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading...\n")
	case len(m.items) == 0 && m.query != "":
		b.WriteString("No matches for \"" + m.query + "\"\n")
	case len(m.items) == 0:
		b.WriteString("No records\n")
	default:
		for i, item := range m.items {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			b.WriteString(cursor + listLine(item) + "\n")
		}
	}

	if summary := yearsSummary(m.activeClient().Records()); summary != "" {
		b.WriteString("\n" + helpStyle.Render(summary) + "\n")
	}

	if m.searching {
		b.WriteString("\nSearch: " + m.searchInput.View() + "\n")
	} else if m.query != "" {
		b.WriteString("\nFilter: " + m.query + " " + helpStyle.Render("(/ to change, esc to clear)") + "\n")
	}

	b.WriteString(m.viewStatus())
	b.WriteString("\n" + helpStyle.Render("enter open  tab switch  / search  r refresh  n new  d delete  g sign in/out  q quit"))
	return b.String()
}

func listLine(item collection.Item) string {
	record := item.Record
	title := record.Title
	if title == "" {
		title = record.Caption
	}

	line := fmt.Sprintf("%s  %s", record.Date.Time().Format("2006-01-02"), title)
	if preacher, ok := record.ExpandedPreacher(); ok {
		line += "  " + helpStyle.Render(preacher.Title)
	}

	switch item.State {
	case collection.StatePendingCreate:
		return pendingStyle.Render(line + "  (uploading...)")
	case collection.StatePendingDelete:
		return pendingStyle.Render(line + "  (deleting...)")
	default:
		return line
	}
}

func yearsSummary(records []models.Record) string {
	groups := view.ByYear(records)
	if len(groups) < 2 {
		return ""
	}

	var parts []string
	for _, group := range groups {
		parts = append(parts, fmt.Sprintf("%d (%d)", group.Year, len(group.Records)))
	}
	return "Archive: " + strings.Join(parts, "  ")
}

func (m appModel) viewDetail() string {
	item, ok := m.current()
	if !ok {
		return "No record selected"
	}
	record := item.Record

	var b strings.Builder
	title := record.Title
	if title == "" {
		title = record.Caption
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString("Date:      " + record.Date.Time().Format("January 2, 2006") + "\n")

	if preacher, ok := record.ExpandedPreacher(); ok {
		b.WriteString("Preacher:  " + preacher.Title + "\n")
	}
	if record.Location != "" {
		b.WriteString("Location:  " + record.Location + "\n")
	}
	if record.TimeOfDay != "" {
		b.WriteString("Time:      " + record.TimeOfDay + "\n")
	}
	if record.Duration != "" {
		b.WriteString("Duration:  " + record.Duration + "\n")
	}
	if record.Category != "" {
		b.WriteString("Category:  " + record.Category + "\n")
	}
	if record.Description != "" {
		b.WriteString("\n" + record.Description + "\n")
	}

	if url, ok := m.services.FileURL(record, "audio"); ok {
		b.WriteString("\nAudio:     " + url + "\n")
		b.WriteString(fmt.Sprintf("Downloads: %d\n", record.DownloadCount))
	}
	if url, ok := m.services.FileURL(record, "image"); ok {
		b.WriteString("Image:     " + url + "\n")
	}

	if item.State != collection.StateConfirmed {
		b.WriteString("\n" + pendingStyle.Render("State: "+item.State.String()) + "\n")
	}

	b.WriteString(m.viewStatus())
	b.WriteString("\n" + helpStyle.Render("c copy file URL  d delete  esc back"))
	return b.String()
}

func (m appModel) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in") + "\n\n")
	b.WriteString("Email:    " + m.loginInputs[0].View() + "\n")
	b.WriteString("Password: " + m.loginInputs[1].View() + "\n")

	if m.loggingIn {
		b.WriteString("\nSigning in...\n")
	}
	b.WriteString(m.viewStatus())
	b.WriteString("\n" + helpStyle.Render("enter submit  tab next field  esc cancel"))
	return overlayBoxStyle.Render(b.String())
}

func (m appModel) viewUpload() string {
	fields := uploadFields[m.activeClient().Collection()]

	var b strings.Builder
	b.WriteString(titleStyle.Render("New "+strings.TrimSuffix(tabNames[m.tab], "s")) + "\n\n")
	for i, field := range fields {
		b.WriteString(fmt.Sprintf("%-22s %s\n", field.label+":", m.uploadInputs[i].View()))
	}

	if m.uploading {
		b.WriteString("\nUploading...\n")
	}
	b.WriteString(m.viewStatus())
	b.WriteString("\n" + helpStyle.Render("enter submit  tab next field  esc cancel"))
	return overlayBoxStyle.Render(b.String())
}

func (m appModel) viewConfirmDelete() string {
	item, _ := m.current()
	title := item.Record.Title
	if title == "" {
		title = item.Record.Caption
	}
	body := fmt.Sprintf("Delete %q?\n\n", title) + helpStyle.Render("y confirm  n cancel")
	return overlayBoxStyle.Render(body)
}

func (m appModel) viewStatus() string {
	var b strings.Builder
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.errMsg) + "\n")
	}
	return b.String()
}
