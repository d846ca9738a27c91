package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/iconidentify/archivelens/cmd/explorer-tui/internal/client"
)

const directoryPageSize = 50

func (a *App) createDirectoryPanel() {
	a.accountInput = tview.NewInputField().
		SetLabel(" Search: ").
		SetPlaceholder("username or display name, empty for directory")
	a.accountInput.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		query := strings.TrimSpace(a.accountInput.GetText())
		go a.refreshDirectory(query)
		a.app.SetFocus(a.accountsTable)
	})

	a.accountsTable = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.accountsTable.SetBorder(true).SetTitle(" Accounts - Enter to open session, '/' to search ")

	a.accountsTable.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			row, _ := a.accountsTable.GetSelection()
			account := a.accountAtRow(row)
			if account != nil {
				go a.openSession(account.Username)
			}
			return nil
		case tcell.KeyRune:
			if event.Rune() == '/' {
				a.app.SetFocus(a.accountInput)
				return nil
			}
		}
		return event
	})

	a.directoryView = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.accountInput, 1, 0, false).
		AddItem(a.accountsTable, 0, 1, true)
}

// refreshDirectory lists accounts matching query, or the most-followed
// directory page when query is empty.
func (a *App) refreshDirectory(query string) {
	a.updateStatusBar("Loading accounts...")

	ctx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()

	var err error
	if query == "" {
		a.accounts, err = a.api.Directory(ctx, directoryPageSize, 0)
	} else {
		a.accounts, err = a.api.SearchAccounts(ctx, query)
	}
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Account lookup failed: %v", err))
		return
	}

	a.app.QueueUpdateDraw(a.updateAccountsTable)
	a.updateStatusBar(fmt.Sprintf("[green]%d account(s)", len(a.accounts)))
}

func (a *App) updateAccountsTable() {
	a.accountsTable.Clear()
	headers := []string{"Username", "Display Name", "Followers", "Following", "Posts"}
	for i, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false)
		a.accountsTable.SetCell(0, i, cell)
	}

	for i, account := range a.accounts {
		row := i + 1
		a.accountsTable.SetCell(row, 0, tview.NewTableCell("@"+account.Username).SetTextColor(tcell.ColorWhite))
		a.accountsTable.SetCell(row, 1, tview.NewTableCell(account.DisplayName).SetExpansion(2))
		a.accountsTable.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", account.Followers)))
		a.accountsTable.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%d", account.Following)))
		a.accountsTable.SetCell(row, 4, tview.NewTableCell(fmt.Sprintf("%d", account.Posts)))
	}

	if len(a.accounts) == 0 {
		a.accountsTable.SetCell(1, 0, tview.NewTableCell("No accounts found").SetTextColor(tcell.ColorYellow))
	}
}

// openSession starts an explorer session for the selected account.
func (a *App) openSession(username string) {
	a.updateStatusBar(fmt.Sprintf("Opening @%s...", username))

	ctx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()

	if old := a.getSession(); old != nil {
		_ = a.api.CloseSession(ctx, old.ID)
	}

	session, err := a.api.OpenSession(ctx, username)
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Open failed: %v", err))
		return
	}

	a.setSession(session)
	a.app.QueueUpdateDraw(a.updateHeader)
	a.updateStatusBar(fmt.Sprintf("[green]Session open for @%s (%d posts)", username, session.Account.Posts))
}

func (a *App) accountAtRow(row int) *client.Account {
	if row <= 0 || row-1 >= len(a.accounts) {
		return nil
	}
	return &a.accounts[row-1]
}
