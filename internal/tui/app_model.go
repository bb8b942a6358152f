package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chapelworks/mediasync/internal/collection"
	"github.com/chapelworks/mediasync/internal/service"
	"github.com/chapelworks/mediasync/models"
)

type screen int

const (
	screenList screen = iota
	screenDetail
	screenLogin
	screenUpload
	screenConfirmDelete
)

var tabNames = []string{"Sermons", "Events", "Gallery"}

type formField struct {
	name  string
	label string
	file  bool
}

var uploadFields = map[string][]formField{
	"sermons": {
		{name: "title", label: "Title"},
		{name: "date", label: "Date (YYYY-MM-DD)"},
		{name: "preacher", label: "Preacher ID"},
		{name: "description", label: "Description"},
		{name: "duration", label: "Duration (e.g. 42:10)"},
		{name: "audio", label: "Audio file path", file: true},
		{name: "image", label: "Cover image path", file: true},
	},
	"events": {
		{name: "title", label: "Title"},
		{name: "date", label: "Date (YYYY-MM-DD)"},
		{name: "location", label: "Location"},
		{name: "time", label: "Time of day"},
		{name: "description", label: "Description"},
		{name: "image", label: "Image path", file: true},
	},
	"gallery": {
		{name: "caption", label: "Caption"},
		{name: "date", label: "Date (YYYY-MM-DD)"},
		{name: "category", label: "Category"},
		{name: "image", label: "Image path", file: true},
	},
}

type appModel struct {
	ctx      context.Context
	services *service.ClientServices

	mode screen
	tab  int
	idx  int

	items   []collection.Item
	query   string
	loading bool

	searching   bool
	searchInput textinput.Model

	loginInputs []textinput.Model
	loginFocus  int
	loggingIn   bool

	uploadInputs []textinput.Model
	uploadFocus  int
	uploading    bool

	status string
	errMsg string

	quitByUser bool
}

func newAppModel(ctx context.Context, services *service.ClientServices) appModel {
	search := textinput.New()
	search.Placeholder = "search title or description"
	search.Width = 40

	return appModel{
		ctx:         ctx,
		services:    services,
		loading:     true,
		searchInput: search,
	}
}

func (m appModel) clients() []*collection.Client {
	return m.services.Clients()
}

func (m appModel) activeClient() *collection.Client {
	return m.clients()[m.tab]
}

func (m appModel) current() (collection.Item, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return collection.Item{}, false
	}
	return m.items[m.idx], true
}

func (m *appModel) reloadItems() {
	all := m.activeClient().Items()
	if m.query == "" {
		m.items = all
	} else {
		q := strings.ToLower(m.query)
		m.items = m.items[:0:0]
		for _, item := range all {
			if strings.Contains(strings.ToLower(item.Record.Title), q) ||
				strings.Contains(strings.ToLower(item.Record.Description), q) ||
				strings.Contains(strings.ToLower(item.Record.Caption), q) {
				m.items = append(m.items, item)
			}
		}
	}

	if m.idx >= len(m.items) {
		m.idx = len(m.items) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.cmdInitialize()}
	for _, client := range m.clients() {
		cmds = append(cmds, m.cmdWatch(client))
	}
	return tea.Batch(cmds...)
}

func (m appModel) cmdInitialize() tea.Cmd {
	return func() tea.Msg {
		return initDoneMsg{err: m.services.InitializeAll(m.ctx)}
	}
}

// cmdWatch blocks on one collection's update signal and re-arms itself
// after every delivery.
func (m appModel) cmdWatch(client *collection.Client) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case <-client.Updates():
			return recordsChangedMsg{collection: client.Collection()}
		}
	}
}

func (m appModel) cmdLogin(identifier, secret string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.services.Session.Login(m.ctx, identifier, secret)
		return loginDoneMsg{err: err}
	}
}

func (m appModel) cmdCreate(client *collection.Client, payload models.CreatePayload) tea.Cmd {
	return func() tea.Msg {
		_, err := client.CreateItem(m.ctx, payload)
		return createDoneMsg{err: err}
	}
}

func (m appModel) cmdDelete(client *collection.Client, id string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{err: client.DeleteItem(m.ctx, id)}
	}
}

func (m appModel) cmdRefresh(client *collection.Client) tea.Cmd {
	return func() tea.Msg {
		if err := client.Refresh(m.ctx); err != nil {
			return deleteDoneMsg{err: err}
		}
		return nil
	}
}

func cmdClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("initial load: %v", msg.err)
		}
		m.reloadItems()
		return m, nil

	case recordsChangedMsg:
		var rearm tea.Cmd
		for _, client := range m.clients() {
			if client.Collection() == msg.collection {
				rearm = m.cmdWatch(client)
			}
		}
		m.reloadItems()
		return m, rearm

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("sign in: %v", msg.err)
			return m, nil
		}
		m.mode = screenList
		m.errMsg = ""
		m.status = "Signed in as " + m.services.Session.Current().Identity.Email
		return m, cmdClearStatusAfter(3 * time.Second)

	case createDoneMsg:
		m.uploading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("upload: %v", msg.err)
			return m, nil
		}
		m.mode = screenList
		m.errMsg = ""
		m.status = "Uploaded"
		m.reloadItems()
		return m, cmdClearStatusAfter(3 * time.Second)

	case deleteDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("delete: %v", msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.reloadItems()
		return m, nil

	case copiedMsg:
		m.status = "Copied to clipboard"
		return m, cmdClearStatusAfter(2 * time.Second)

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	if keyMsg.String() == "ctrl+c" {
		m.quitByUser = true
		return m, tea.Quit
	}

	switch m.mode {
	case screenLogin:
		return m.updateLogin(keyMsg)
	case screenUpload:
		return m.updateUpload(keyMsg)
	case screenConfirmDelete:
		return m.updateConfirmDelete(keyMsg)
	case screenDetail:
		return m.updateDetail(keyMsg)
	default:
		return m.updateList(keyMsg)
	}
}

func (m appModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case screenLogin:
		m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	case screenUpload:
		m.uploadInputs[m.uploadFocus], cmd = m.uploadInputs[m.uploadFocus].Update(msg)
	default:
		if m.searching {
			m.searchInput, cmd = m.searchInput.Update(msg)
		}
	}
	return m, cmd
}

func (m appModel) updateList(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.searching = false
			m.query = ""
			m.searchInput.SetValue("")
			m.reloadItems()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			m.searching = false
			m.query = strings.TrimSpace(m.searchInput.Value())
			m.reloadItems()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(keyMsg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.tab), key.Matches(keyMsg, keys.right):
		m.tab = (m.tab + 1) % len(tabNames)
		m.idx = 0
		m.reloadItems()
	case key.Matches(keyMsg, keys.backtab), key.Matches(keyMsg, keys.left):
		m.tab = (m.tab - 1 + len(tabNames)) % len(tabNames)
		m.idx = 0
		m.reloadItems()
	case key.Matches(keyMsg, keys.search):
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.enter):
		if _, ok := m.current(); ok {
			m.mode = screenDetail
		}
	case key.Matches(keyMsg, keys.refresh):
		return m, m.cmdRefresh(m.activeClient())
	case key.Matches(keyMsg, keys.login):
		if m.services.Session.IsAuthenticated() {
			m.services.Session.Logout()
			m.status = "Signed out"
			return m, cmdClearStatusAfter(3 * time.Second)
		}
		m.startLogin()
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.newItem):
		if !m.services.Session.IsAuthenticated() {
			m.errMsg = "sign in first (press g)"
			return m, nil
		}
		m.startUpload()
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.delete):
		if !m.services.Session.IsAuthenticated() {
			m.errMsg = "sign in first (press g)"
			return m, nil
		}
		if item, ok := m.current(); ok && item.State != collection.StatePendingDelete {
			m.mode = screenConfirmDelete
		}
	}
	return m, nil
}

func (m appModel) updateDetail(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, ok := m.current()
	if !ok {
		m.mode = screenList
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc), key.Matches(keyMsg, keys.quit):
		m.mode = screenList
	case key.Matches(keyMsg, keys.copy):
		url, ok := m.detailCopyValue(item.Record)
		if !ok {
			m.status = "Nothing to copy"
			return m, cmdClearStatusAfter(2 * time.Second)
		}
		if err := clipboard.WriteAll(url); err != nil {
			m.errMsg = fmt.Sprintf("copy: %v", err)
			return m, nil
		}
		return m, m.cmdCopied(item.Record)
	case key.Matches(keyMsg, keys.delete):
		if m.services.Session.IsAuthenticated() && item.State != collection.StatePendingDelete {
			m.mode = screenConfirmDelete
		}
	}
	return m, nil
}

// cmdCopied reports the copy and, for sermon audio, counts the download.
func (m appModel) cmdCopied(record models.Record) tea.Cmd {
	if record.CollectionName == "sermons" && record.Audio != "" {
		return func() tea.Msg {
			_ = m.services.IncrementDownload(m.ctx, record.ID)
			return copiedMsg{}
		}
	}
	return func() tea.Msg { return copiedMsg{} }
}

func (m appModel) detailCopyValue(record models.Record) (string, bool) {
	if record.Audio != "" {
		return m.services.FileURL(record, "audio")
	}
	return m.services.FileURL(record, "image")
}

func (m appModel) updateConfirmDelete(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.yes):
		item, ok := m.current()
		m.mode = screenList
		if !ok {
			return m, nil
		}
		return m, m.cmdDelete(m.activeClient(), item.Record.ID)
	case key.Matches(keyMsg, keys.no), key.Matches(keyMsg, keys.esc):
		m.mode = screenList
	}
	return m, nil
}

func (m *appModel) startLogin() {
	email := textinput.New()
	email.Placeholder = "email"
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	m.loginInputs = []textinput.Model{email, password}
	m.loginFocus = 0
	m.mode = screenLogin
}

func (m appModel) updateLogin(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.esc):
		m.mode = screenList
		return m, nil
	case key.Matches(keyMsg, keys.nextField), key.Matches(keyMsg, keys.prevField):
		m.loginInputs[m.loginFocus].Blur()
		m.loginFocus = (m.loginFocus + 1) % len(m.loginInputs)
		m.loginInputs[m.loginFocus].Focus()
		return m, nil
	case key.Matches(keyMsg, keys.enter):
		if m.loggingIn {
			return m, nil
		}
		identifier := strings.TrimSpace(m.loginInputs[0].Value())
		secret := m.loginInputs[1].Value()
		if identifier == "" || secret == "" {
			m.errMsg = "email and password are required"
			return m, nil
		}
		m.loggingIn = true
		m.errMsg = ""
		return m, m.cmdLogin(identifier, secret)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(keyMsg)
	return m, cmd
}

func (m *appModel) startUpload() {
	fields := uploadFields[m.activeClient().Collection()]
	m.uploadInputs = make([]textinput.Model, len(fields))
	for i, field := range fields {
		input := textinput.New()
		input.Placeholder = field.label
		input.Width = 50
		m.uploadInputs[i] = input
	}
	m.uploadInputs[0].Focus()
	m.uploadFocus = 0
	m.mode = screenUpload
}

func (m appModel) updateUpload(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := uploadFields[m.activeClient().Collection()]

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.mode = screenList
		return m, nil
	case key.Matches(keyMsg, keys.nextField):
		m.uploadInputs[m.uploadFocus].Blur()
		m.uploadFocus = (m.uploadFocus + 1) % len(m.uploadInputs)
		m.uploadInputs[m.uploadFocus].Focus()
		return m, nil
	case key.Matches(keyMsg, keys.prevField):
		m.uploadInputs[m.uploadFocus].Blur()
		m.uploadFocus = (m.uploadFocus - 1 + len(m.uploadInputs)) % len(m.uploadInputs)
		m.uploadInputs[m.uploadFocus].Focus()
		return m, nil
	case key.Matches(keyMsg, keys.enter):
		if m.uploading {
			return m, nil
		}
		payload, err := m.buildUploadPayload(fields)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.uploading = true
		m.errMsg = ""
		return m, m.cmdCreate(m.activeClient(), payload)
	}

	var cmd tea.Cmd
	m.uploadInputs[m.uploadFocus], cmd = m.uploadInputs[m.uploadFocus].Update(keyMsg)
	return m, cmd
}

func (m appModel) buildUploadPayload(fields []formField) (models.CreatePayload, error) {
	payload := models.CreatePayload{Fields: map[string]string{}}
	for i, field := range fields {
		value := strings.TrimSpace(m.uploadInputs[i].Value())
		if value == "" {
			continue
		}
		if !field.file {
			payload.Fields[field.name] = value
			continue
		}

		content, err := os.ReadFile(value)
		if err != nil {
			return models.CreatePayload{}, fmt.Errorf("read %s: %w", field.label, err)
		}
		payload.Files = append(payload.Files, models.FileAttachment{
			Field:   field.name,
			Name:    filepath.Base(value),
			Content: content,
		})
	}

	if payload.Field("title") == "" && payload.Field("caption") == "" {
		return models.CreatePayload{}, fmt.Errorf("a title is required")
	}
	if payload.Field("date") == "" {
		return models.CreatePayload{}, fmt.Errorf("a date is required")
	}
	return payload, nil
}
