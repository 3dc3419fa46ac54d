package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"security-monitor/cameras"
	"security-monitor/confs"
	"security-monitor/db"
	"security-monitor/entities"
	"security-monitor/live"
	"security-monitor/server"
	"security-monitor/usecases"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type screen int

const (
	screenLogin screen = iota
	screenMenu
	screenCameras
	screenNotifications
	screenRegisterClient
	screenChangeEmail
	screenChangePassword
)

var menuItems = []struct {
	label  string
	target screen
}{
	{"Cameras", screenCameras},
	{"Notifications", screenNotifications},
	{"Register client", screenRegisterClient},
	{"Change email", screenChangeEmail},
	{"Change password", screenChangePassword},
	{"Logout", screenLogin},
}

// form collects a fixed list of fields one at a time.
type form struct {
	labels []string
	secret []bool
	values []string
	idx    int
	input  string
}

func newForm(labels []string, secret ...int) *form {
	f := &form{labels: labels, secret: make([]bool, len(labels)), values: make([]string, len(labels))}
	for _, i := range secret {
		f.secret[i] = true
	}
	return f
}

// next stores the current input and reports whether every field is filled.
func (f *form) next() bool {
	f.values[f.idx] = f.input
	f.input = ""
	f.idx++
	return f.idx == len(f.labels)
}

func (f *form) view(s *strings.Builder) {
	for i := 0; i < f.idx; i++ {
		v := f.values[i]
		if f.secret[i] {
			v = strings.Repeat("•", len(v))
		}
		s.WriteString(mutedStyle.Render(f.labels[i]+": "+v) + "\n")
	}
	if f.idx >= len(f.labels) {
		return
	}
	input := f.input
	if f.secret[f.idx] {
		input = strings.Repeat("•", len(input))
	}
	s.WriteString(promptStyle.Render(f.labels[f.idx]+":") + "\n")
	s.WriteString(inputStyle.Render("> "+input) + "\n")
}

type model struct {
	app    *app
	screen screen
	cursor int
	form   *form

	user    *entities.User
	cams    []entities.Camera
	notes   []entities.Notification
	unread  int64
	message string
}

// app holds what outlives a single model value.
type app struct {
	svc   *server.Services
	send  func(tea.Msg)
	scope *live.Scope
	gen   int
}

type loginSuccessMsg struct{ user *entities.User }
// Feed messages carry the subscription generation so snapshots from a
// closed session are dropped.
type notificationsMsg struct {
	gen   int
	notes []entities.Notification
}
type unreadMsg struct {
	gen   int
	count int64
}
type doneMsg string
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(a *app) model {
	return model{
		app:    a,
		screen: screenLogin,
		form:   newForm([]string{"Username", "Password"}, 1),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (a *app) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := a.svc.Auth.Authenticate(context.Background(), username, password)
		if err != nil {
			return errMsg{err}
		}
		return loginSuccessMsg{user: user}
	}
}

// subscribe opens the live notification feed of user, linking and seeding
// it on first use. Snapshots reach the program as messages until the scope
// is closed.
func (a *app) subscribe(user *entities.User) {
	a.unsubscribe()
	a.gen++
	gen := a.gen
	a.scope = live.NewScope(context.Background())
	if _, err := a.svc.Seeder.EnsureNotifications(a.scope.Context(), user); err != nil {
		log.Printf("Error seeding notifications for %s: %v", user.Username, err)
	}
	if user.ClientID == nil {
		return
	}
	clientID := *user.ClientID

	live.Forward(a.scope, func(ctx context.Context) *live.Subscription[[]entities.Notification] {
		return a.svc.NotificationUC.WatchForClient(ctx, clientID)
	}, func(s live.Snapshot[[]entities.Notification]) {
		if s.Err != nil {
			a.send(errMsg{s.Err})
			return
		}
		a.send(notificationsMsg{gen: gen, notes: s.Data})
	})
	live.Forward(a.scope, func(ctx context.Context) *live.Subscription[int64] {
		return a.svc.NotificationUC.WatchUnreadCount(ctx, clientID)
	}, func(s live.Snapshot[int64]) {
		if s.Err == nil {
			a.send(unreadMsg{gen: gen, count: s.Data})
		}
	})
}

// unsubscribe closes the current feed without waiting: its forwarders may
// be blocked handing a snapshot to the event loop that called us.
func (a *app) unsubscribe() {
	if a.scope == nil {
		return
	}
	go func(scope *live.Scope) {
		if err := scope.Close(); err != nil {
			log.Printf("Error closing subscriptions: %v", err)
		}
	}(a.scope)
	a.scope = nil
	a.gen++
}

func (a *app) markRead(id uint) tea.Cmd {
	return func() tea.Msg {
		if err := a.svc.NotificationUC.MarkAsRead(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (a *app) markAllRead(clientID uint) tea.Cmd {
	return func() tea.Msg {
		if err := a.svc.NotificationUC.MarkAllAsReadForClient(context.Background(), clientID); err != nil {
			return errMsg{err}
		}
		return doneMsg("All notifications marked as read")
	}
}

func (a *app) registerClient(userID uint, v []string) tea.Cmd {
	return func() tea.Msg {
		in := usecases.ClientInput{
			FirstName: v[0], LastName: v[1], Email: v[2], PhoneNumber: v[3],
			Address: v[4], City: v[5], State: v[6], ZipCode: v[7],
		}
		reg, err := a.svc.ClientUseCase.RegisterClient(context.Background(), userID, in)
		if reg == nil {
			return errMsg{err}
		}
		if err != nil {
			return doneMsg(fmt.Sprintf("Client %s registered with errors: %v", reg.Client.FullName(), err))
		}
		return doneMsg(fmt.Sprintf("Client %s registered with %d notifications", reg.Client.FullName(), reg.Notifications))
	}
}

func (a *app) changeEmail(userID uint, v []string) tea.Cmd {
	return func() tea.Msg {
		if err := a.svc.Auth.ChangeEmail(context.Background(), userID, usecases.ChangeEmailInput{Email: v[0], Confirm: v[1]}); err != nil {
			return errMsg{err}
		}
		return doneMsg("Email updated")
	}
}

func (a *app) changePassword(userID uint, v []string) tea.Cmd {
	return func() tea.Msg {
		in := usecases.ChangePasswordInput{Current: v[0], New: v[1], Confirm: v[2]}
		if err := a.svc.Auth.ChangePassword(context.Background(), userID, in); err != nil {
			return errMsg{err}
		}
		return doneMsg("Password updated")
	}
}

func (m model) open(s screen) (model, tea.Cmd) {
	m.screen = s
	m.cursor = 0
	m.message = ""
	switch s {
	case screenLogin:
		m.app.svc.Auth.Logout(context.Background(), m.user.ID)
		m.app.unsubscribe()
		m.user, m.notes, m.unread = nil, nil, 0
		m.form = newForm([]string{"Username", "Password"}, 1)
	case screenCameras:
		m.cams = cameras.ForUser(m.user.Username)
	case screenRegisterClient:
		m.form = newForm([]string{"First name", "Last name", "Email", "Phone", "Address", "City", "State", "Zip code"})
	case screenChangeEmail:
		m.form = newForm([]string{"New email", "Confirm email"})
	case screenChangePassword:
		m.form = newForm([]string{"Current password", "New password", "Confirm password"}, 0, 1, 2)
	}
	return m, nil
}

func (m model) submit() (model, tea.Cmd) {
	v := m.form.values
	switch m.screen {
	case screenLogin:
		m.message = "Logging in..."
		return m, m.app.login(v[0], v[1])
	case screenRegisterClient:
		return m, m.app.registerClient(m.user.ID, v)
	case screenChangeEmail:
		return m, m.app.changeEmail(m.user.ID, v)
	case screenChangePassword:
		return m, m.app.changePassword(m.user.ID, v)
	}
	return m, nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.app.unsubscribe()
			return m, tea.Quit
		case "esc":
			if m.screen != screenLogin && m.screen != screenMenu {
				m.screen = screenMenu
				m.message = ""
			}
			return m, nil
		}

		switch m.screen {
		case screenLogin, screenRegisterClient, screenChangeEmail, screenChangePassword:
			switch msg.Type {
			case tea.KeyEnter:
				if m.form.idx < len(m.form.labels) && m.form.next() {
					return m.submit()
				}
			case tea.KeyBackspace:
				if len(m.form.input) > 0 {
					r := []rune(m.form.input)
					m.form.input = string(r[:len(r)-1])
				}
			case tea.KeyRunes, tea.KeySpace:
				m.form.input += string(msg.Runes)
			}
		case screenMenu:
			switch msg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(menuItems)-1 {
					m.cursor++
				}
			case "enter":
				return m.open(menuItems[m.cursor].target)
			case "q":
				m.app.unsubscribe()
				return m, tea.Quit
			}
		case screenNotifications:
			switch msg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.notes)-1 {
					m.cursor++
				}
			case "enter":
				if m.cursor < len(m.notes) && !m.notes[m.cursor].IsRead {
					return m, m.app.markRead(m.notes[m.cursor].ID)
				}
			case "a":
				if m.user.ClientID != nil {
					return m, m.app.markAllRead(*m.user.ClientID)
				}
			}
		}

	case loginSuccessMsg:
		m.user = msg.user
		m.screen = screenMenu
		m.cursor = 0
		m.message = successStyle.Render("✓ Logged in as " + m.user.Username)
		m.app.subscribe(m.user)
	case notificationsMsg:
		if msg.gen != m.app.gen {
			return m, nil
		}
		m.notes = msg.notes
		if m.cursor >= len(m.notes) && m.screen == screenNotifications {
			m.cursor = max(len(m.notes)-1, 0)
		}
	case unreadMsg:
		if msg.gen == m.app.gen {
			m.unread = msg.count
		}
	case doneMsg:
		m.message = successStyle.Render("✓ " + string(msg))
		if m.screen != screenNotifications {
			m.screen = screenMenu
			m.cursor = 0
		}
	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		if m.form != nil && m.screen != screenMenu && m.screen != screenNotifications {
			// start the form over
			m.form = newForm(m.form.labels, secretIndexes(m.form)...)
		}
	}
	return m, nil
}

func secretIndexes(f *form) []int {
	var out []int
	for i, s := range f.secret {
		if s {
			out = append(out, i)
		}
	}
	return out
}

func (m model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Security Monitor"))
	s.WriteString("\n")

	if m.user != nil {
		s.WriteString(mutedStyle.Render(fmt.Sprintf("%s (%s) · %d unread", m.user.Username, m.user.Role, m.unread)))
		s.WriteString("\n\n")
	}

	switch m.screen {
	case screenLogin, screenRegisterClient, screenChangeEmail, screenChangePassword:
		m.form.view(&s)
		s.WriteString("\nPress Enter")
		if m.screen != screenLogin {
			s.WriteString(", Esc to go back")
		}
		s.WriteString("\n")
	case screenMenu:
		for i, item := range menuItems {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			s.WriteString(fmt.Sprintf("%s %s\n", cursor, style.Render(item.label)))
		}
		s.WriteString("\nUse ↑/↓, Enter to open, q to quit\n")
	case screenCameras:
		sum := cameras.Summary(m.cams)
		s.WriteString(promptStyle.Render(fmt.Sprintf("%d cameras · %d online · %d offline", len(m.cams), sum[entities.CameraOnline], sum[entities.CameraOffline])))
		s.WriteString("\n\n")
		for _, c := range m.cams {
			line := fmt.Sprintf("%-28s %-18s %s", c.Name, c.Location, c.Status)
			switch c.Status {
			case entities.CameraOnline:
				s.WriteString(normalStyle.Render(line))
			case entities.CameraOffline, entities.CameraError:
				s.WriteString(normalStyle.Render(errorStyle.Render(line)))
			default:
				s.WriteString(normalStyle.Render(warningStyle.Render(line)))
			}
			s.WriteString("\n")
		}
		s.WriteString("\nEsc to go back\n")
	case screenNotifications:
		if len(m.notes) == 0 {
			s.WriteString(normalStyle.Render("No notifications") + "\n")
		}
		for i, n := range m.notes {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			mark := "●"
			if n.IsRead {
				mark = " "
			}
			line := fmt.Sprintf("%s %-20s %s  %s", mark, n.Title(), n.NotificationDate.Format("02/01 15:04"), n.Message)
			if n.Severity() == entities.SeverityAlert && !n.IsRead {
				line = warningStyle.Render(line)
			}
			s.WriteString(fmt.Sprintf("%s %s\n", cursor, style.Render(line)))
		}
		s.WriteString("\nEnter to mark read, a to mark all, Esc to go back\n")
	}

	if m.message != "" {
		s.WriteString("\n" + m.message + "\n")
	}
	return s.String()
}

func main() {
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// keep log output off the terminal UI
	if f, err := tea.LogToFile("security-monitor.log", "console"); err == nil {
		defer f.Close()
	}

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close()

	svc, err := server.NewServices(cfg, database)
	if err != nil {
		log.Fatalf("Failed to wire services: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if cfg.DBSeed {
		if err := svc.Seeder.Run(ctx); err != nil {
			log.Printf("Seeding finished with errors: %v", err)
		}
	}
	svc.AuditProcessor.Start(ctx)

	a := &app{svc: svc}
	p := tea.NewProgram(initialModel(a))
	a.send = p.Send
	_, err = p.Run()

	// the program has exited, so forwarders no longer block on Send
	if a.scope != nil {
		_ = a.scope.Close()
	}
	cancel()
	svc.AuditProcessor.Wait()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
