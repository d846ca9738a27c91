package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func (a *App) createSearchPanel() {
	a.searchInput = tview.NewInputField().
		SetLabel(" Query: ").
		SetPlaceholder(`boolean query, e.g. "good morning" or gm`)
	a.searchInput.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		go a.runSearch(strings.TrimSpace(a.searchInput.GetText()))
	})

	a.searchResults = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.searchResults.SetBorder(true).SetTitle(" Results - 's' cycle sort, 'd' cycle direction ")

	a.searchResults.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() != tcell.KeyRune {
			return event
		}
		switch event.Rune() {
		case 's', 'S':
			a.cycleSearchSort()
			go a.runSearch(strings.TrimSpace(a.searchInput.GetText()))
			return nil
		case 'd', 'D':
			a.cycleSearchDir()
			go a.runSearch(strings.TrimSpace(a.searchInput.GetText()))
			return nil
		case '/':
			a.app.SetFocus(a.searchInput)
			return nil
		}
		return event
	})

	a.searchView = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.searchInput, 1, 0, true).
		AddItem(a.searchResults, 0, 1, false)
}

func (a *App) cycleSearchSort() {
	switch a.searchSort {
	case "":
		a.searchSort = "likes"
	case "likes":
		a.searchSort = "retweets"
	case "retweets":
		a.searchSort = "date"
	default:
		a.searchSort = ""
	}
	a.updateStatusBar(fmt.Sprintf("[yellow]Sort: %s", orNone(a.searchSort)))
}

func (a *App) cycleSearchDir() {
	switch a.searchDir {
	case "":
		a.searchDir = "desc"
	case "desc":
		a.searchDir = "asc"
	default:
		a.searchDir = ""
	}
	a.updateStatusBar(fmt.Sprintf("[yellow]Direction: %s", orNone(a.searchDir)))
}

// runSearch queries the session's post history. An empty query matches
// every post.
func (a *App) runSearch(query string) {
	s := a.requireSession()
	if s == nil {
		return
	}
	a.updateStatusBar("Searching...")

	ctx, cancel := context.WithTimeout(a.ctx, a.cfg.RequestTimeout)
	defer cancel()

	posts, err := a.api.SearchPosts(ctx, s.ID, query, a.searchSort, a.searchDir)
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Search failed: %v", err))
		return
	}

	a.app.QueueUpdateDraw(func() {
		a.searchResults.Clear()
		for _, post := range posts {
			fmt.Fprintf(a.searchResults, "[dim]%s[white] [green]%d♥[white] [aqua]%d↻[white]\n%s\n\n",
				post.CreatedAt.Format("2006-01-02 15:04"), post.Favorites, post.Retweets, post.Text)
		}
		if len(posts) == 0 {
			fmt.Fprintln(a.searchResults, "[dim]No matching posts[white]")
		}
		a.app.SetFocus(a.searchResults)
	})
	a.updateStatusBar(fmt.Sprintf("[green]%d matching post(s)", len(posts)))
}

func orNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
