// Package ui provides the terminal user interface for the ArchiveLens TUI.
package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/iconidentify/archivelens/cmd/explorer-tui/internal/client"
	"github.com/iconidentify/archivelens/cmd/explorer-tui/internal/config"
)

// Panel represents a UI panel type.
type Panel int

const (
	PanelDirectory Panel = iota
	PanelTopPosts
	PanelRatios
	PanelWordCloud
	PanelSearch
	PanelConversation
	PanelHelp
)

// App is the main TUI application.
type App struct {
	app          *tview.Application
	pages        *tview.Pages
	cfg          *config.Config
	api          *client.Client
	currentPanel Panel
	ctx          context.Context
	cancel       context.CancelFunc

	// UI components
	mainFlex      *tview.Flex
	header        *tview.TextView
	footer        *tview.TextView
	statusBar     *tview.TextView
	directoryView *tview.Flex
	accountsTable *tview.Table
	accountInput  *tview.InputField
	topTable      *tview.Table
	ratiosView    *tview.TextView
	cloudView     *tview.Flex
	wordsView     *tview.TextView
	emojisView    *tview.TextView
	searchView    *tview.Flex
	searchInput   *tview.InputField
	searchResults *tview.TextView
	convoView     *tview.Flex
	convoInput    *tview.InputField
	transcript    *tview.TextView
	helpView      *tview.TextView

	// State
	sessionMu  sync.RWMutex
	session    *client.Session
	accounts   []client.Account
	topMetric  string
	searchSort string
	searchDir  string
}

// NewApp creates a new TUI application.
func NewApp(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		cfg:       cfg,
		api:       client.NewClient(cfg.ServerURL, cfg.APIKey, cfg.RequestTimeout),
		ctx:       ctx,
		cancel:    cancel,
		topMetric: "favorite_count",
	}

	a.setupUI()
	return a, nil
}

// setupUI initializes all UI components.
func (a *App) setupUI() {
	// Header
	a.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	a.header.SetBackgroundColor(tcell.ColorDarkBlue)
	a.updateHeader()

	// Footer with keybindings
	a.footer = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]1[white]:Accounts [yellow]2[white]:Top [yellow]3[white]:Ratios [yellow]4[white]:Words [yellow]5[white]:Search [yellow]6[white]:Conversation [yellow]?[white]:Help [yellow]q[white]:Quit")
	a.footer.SetBackgroundColor(tcell.ColorDarkBlue)

	// Status bar
	a.statusBar = tview.NewTextView().
		SetDynamicColors(true)
	a.statusBar.SetBackgroundColor(tcell.ColorDarkGreen)

	// Create panels
	a.createDirectoryPanel()
	a.createTopPostsPanel()
	a.createRatiosPanel()
	a.createWordCloudPanel()
	a.createSearchPanel()
	a.createConversationPanel()
	a.createHelpPanel()

	// Add panels to pages
	a.pages.AddPage("directory", a.directoryView, true, true)
	a.pages.AddPage("top", a.topTable, true, false)
	a.pages.AddPage("ratios", a.ratiosView, true, false)
	a.pages.AddPage("wordcloud", a.cloudView, true, false)
	a.pages.AddPage("search", a.searchView, true, false)
	a.pages.AddPage("conversation", a.convoView, true, false)
	a.pages.AddPage("help", a.helpView, true, false)

	// Main layout
	a.mainFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 3, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false).
		AddItem(a.footer, 1, 0, false)

	// Global key bindings
	a.app.SetInputCapture(a.handleGlobalKeys)

	a.app.SetRoot(a.mainFlex, true)
}

// handleGlobalKeys handles global keyboard shortcuts.
func (a *App) handleGlobalKeys(event *tcell.EventKey) *tcell.EventKey {
	// Don't intercept when typing in input fields
	switch a.app.GetFocus() {
	case a.accountInput, a.searchInput, a.convoInput:
		if event.Key() == tcell.KeyEscape {
			a.app.SetFocus(a.pages)
			return nil
		}
		return event
	}

	switch event.Key() {
	case tcell.KeyRune:
		switch event.Rune() {
		case '1':
			a.switchPanel(PanelDirectory)
			return nil
		case '2':
			a.switchPanel(PanelTopPosts)
			return nil
		case '3':
			a.switchPanel(PanelRatios)
			return nil
		case '4':
			a.switchPanel(PanelWordCloud)
			return nil
		case '5':
			a.switchPanel(PanelSearch)
			return nil
		case '6':
			a.switchPanel(PanelConversation)
			return nil
		case '?':
			a.switchPanel(PanelHelp)
			return nil
		case 'q', 'Q':
			a.Stop()
			return nil
		case 'x', 'X':
			go a.cancelFetch()
			return nil
		case 'c', 'C':
			go a.closeSession()
			return nil
		}
	case tcell.KeyEscape:
		a.switchPanel(PanelDirectory)
		return nil
	}

	return event
}

// switchPanel switches to the specified panel.
func (a *App) switchPanel(panel Panel) {
	a.currentPanel = panel

	switch panel {
	case PanelDirectory:
		a.pages.SwitchToPage("directory")
		a.app.SetFocus(a.accountsTable)
	case PanelTopPosts:
		a.pages.SwitchToPage("top")
		go a.refreshTopPosts()
	case PanelRatios:
		a.pages.SwitchToPage("ratios")
		go a.refreshRatios()
	case PanelWordCloud:
		a.pages.SwitchToPage("wordcloud")
		go a.refreshWordCloud()
	case PanelSearch:
		a.pages.SwitchToPage("search")
		a.app.SetFocus(a.searchInput)
	case PanelConversation:
		a.pages.SwitchToPage("conversation")
		a.app.SetFocus(a.convoInput)
	case PanelHelp:
		a.pages.SwitchToPage("help")
	}

	a.updateHeader()
}

// updateHeader updates the header with current panel and session.
func (a *App) updateHeader() {
	var panelName string
	switch a.currentPanel {
	case PanelDirectory:
		panelName = "Accounts"
	case PanelTopPosts:
		panelName = "Top Posts"
	case PanelRatios:
		panelName = "Engagement Ratios"
	case PanelWordCloud:
		panelName = "Word Cloud"
	case PanelSearch:
		panelName = "Post Search"
	case PanelConversation:
		panelName = "Conversation"
	case PanelHelp:
		panelName = "Help"
	}

	account := "none"
	if s := a.getSession(); s != nil {
		account = "@" + s.Account.Username
	}
	a.header.SetText(fmt.Sprintf("\n[white::b]ArchiveLens[white] - [yellow]%s[white] | Account: [green]%s[white] | Server: [green]%s",
		panelName, account, a.cfg.ServerURL))
}

// updateStatusBar updates the status bar with current status.
func (a *App) updateStatusBar(msg string) {
	a.app.QueueUpdateDraw(func() {
		a.statusBar.SetText(fmt.Sprintf(" %s | %s", msg, time.Now().Format("15:04:05")))
	})
}

// Run starts the TUI application.
func (a *App) Run() error {
	// Load the directory on startup
	go a.refreshDirectory("")

	// Track history load progress in the background
	go a.trackProgress()

	return a.app.Run()
}

// Stop stops the TUI application.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// getSession returns the current session, or nil when none is open.
func (a *App) getSession() *client.Session {
	a.sessionMu.RLock()
	defer a.sessionMu.RUnlock()
	return a.session
}

func (a *App) setSession(s *client.Session) {
	a.sessionMu.Lock()
	a.session = s
	a.sessionMu.Unlock()
}

// requireSession returns the current session, reporting to the status bar
// when no account has been opened yet.
func (a *App) requireSession() *client.Session {
	s := a.getSession()
	if s == nil {
		a.updateStatusBar("[yellow]Open an account first (panel 1)")
	}
	return s
}

// trackProgress polls the open session until its history finishes loading.
func (a *App) trackProgress() {
	ticker := time.NewTicker(a.cfg.ProgressRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			s := a.getSession()
			if s == nil || s.Progress.Done {
				continue
			}

			ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
			updated, err := a.api.GetSession(ctx, s.ID)
			cancel()
			if err != nil {
				continue
			}
			a.setSession(updated)

			if updated.Progress.Done {
				a.updateStatusBar(fmt.Sprintf("[green]History loaded: %d posts", updated.Progress.Fetched))
			} else {
				a.updateStatusBar(fmt.Sprintf("[yellow]Loading history: %d/%d", updated.Progress.Fetched, updated.Progress.Total))
			}
		}
	}
}

// cancelFetch stops the open session's history download.
func (a *App) cancelFetch() {
	s := a.requireSession()
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
	defer cancel()

	if err := a.api.CancelFetch(ctx, s.ID); err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Cancel failed: %v", err))
		return
	}
	a.updateStatusBar("[yellow]History download cancelled")
}

// closeSession discards the open session.
func (a *App) closeSession() {
	s := a.getSession()
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
	defer cancel()

	if err := a.api.CloseSession(ctx, s.ID); err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Close failed: %v", err))
		return
	}
	a.setSession(nil)
	a.app.QueueUpdateDraw(a.updateHeader)
	a.updateStatusBar("[green]Session closed")
}
