package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/iconidentify/archivelens/cmd/explorer-tui/internal/client"
)

func (a *App) createTopPostsPanel() {
	a.topTable = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.topTable.SetBorder(true).SetTitle(" Top Posts - 'm' to toggle metric ")

	a.topTable.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && (event.Rune() == 'm' || event.Rune() == 'M') {
			if a.topMetric == "favorite_count" {
				a.topMetric = "retweet_count"
			} else {
				a.topMetric = "favorite_count"
			}
			go a.refreshTopPosts()
			return nil
		}
		return event
	})
}

func (a *App) createRatiosPanel() {
	a.ratiosView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.ratiosView.SetBorder(true).SetTitle(" Engagement Ratios ")
}

func (a *App) createWordCloudPanel() {
	a.wordsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.wordsView.SetBorder(true).SetTitle(" Words ")

	a.emojisView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.emojisView.SetBorder(true).SetTitle(" Emojis ")

	a.cloudView = tview.NewFlex().
		AddItem(a.wordsView, 0, 2, true).
		AddItem(a.emojisView, 0, 1, false)
}

func (a *App) refreshTopPosts() {
	s := a.requireSession()
	if s == nil {
		return
	}
	a.updateStatusBar("Loading top posts...")

	ctx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()

	posts, err := a.api.TopPosts(ctx, s.ID, a.topMetric, 0)
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Top posts failed: %v", err))
		return
	}

	a.app.QueueUpdateDraw(func() {
		a.updateTopTable(posts)
	})
	a.updateStatusBar(fmt.Sprintf("[green]Top %d posts by %s", len(posts), a.topMetric))
}

func (a *App) updateTopTable(posts []client.Post) {
	a.topTable.Clear()
	headers := []string{"#", "Likes", "Retweets", "Date", "Text"}
	for i, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false)
		a.topTable.SetCell(0, i, cell)
	}

	for i, post := range posts {
		row := i + 1
		a.topTable.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf("%d", row)))
		a.topTable.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf("%d", post.Favorites)).SetTextColor(tcell.ColorGreen))
		a.topTable.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", post.Retweets)).SetTextColor(tcell.ColorAqua))
		a.topTable.SetCell(row, 3, tview.NewTableCell(post.CreatedAt.Format("2006-01-02")))
		a.topTable.SetCell(row, 4, tview.NewTableCell(firstLine(post.Text)).SetExpansion(2))
	}

	if len(posts) == 0 {
		a.topTable.SetCell(1, 0, tview.NewTableCell("No posts").SetTextColor(tcell.ColorYellow))
	}
}

// refreshRatios renders the best and worst favorites:retweets ratios.
// The call blocks server-side until the history has loaded.
func (a *App) refreshRatios() {
	s := a.requireSession()
	if s == nil {
		return
	}
	a.updateStatusBar("Computing ratios...")

	ctx, cancel := context.WithTimeout(a.ctx, a.cfg.RequestTimeout)
	defer cancel()

	extremes, err := a.api.Ratios(ctx, s.ID, 0)
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Ratios failed: %v", err))
		return
	}

	a.app.QueueUpdateDraw(func() {
		a.ratiosView.Clear()
		fmt.Fprintf(a.ratiosView, "[green::b]Highest ratio (likes per retweet)[white]\n\n")
		writeRatedPosts(a.ratiosView, extremes.Highest)
		fmt.Fprintf(a.ratiosView, "\n[red::b]Lowest ratio[white]\n\n")
		writeRatedPosts(a.ratiosView, extremes.Lowest)
	})
	a.updateStatusBar("[green]Ratios ready")
}

func writeRatedPosts(view *tview.TextView, posts []client.RatedPost) {
	if len(posts) == 0 {
		fmt.Fprintln(view, "[dim]No posts with both likes and retweets[white]")
		return
	}
	for _, post := range posts {
		fmt.Fprintf(view, "[yellow]%8.2f[white]  %6d likes %6d rts  %s\n",
			post.Ratio, post.Favorites, post.Retweets, firstLine(post.Text))
	}
}

// refreshWordCloud renders word and emoji frequency reports side by side.
func (a *App) refreshWordCloud() {
	s := a.requireSession()
	if s == nil {
		return
	}
	a.updateStatusBar("Building reports...")

	ctx, cancel := context.WithTimeout(a.ctx, a.cfg.RequestTimeout)
	defer cancel()

	words, err := a.api.WordCloud(ctx, s.ID)
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Word cloud failed: %v", err))
		return
	}
	emojis, err := a.api.Emojis(ctx, s.ID)
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Emoji report failed: %v", err))
		return
	}

	a.app.QueueUpdateDraw(func() {
		a.wordsView.Clear()
		for i, w := range words {
			fmt.Fprintf(a.wordsView, "[yellow]%4d.[white] %-24s [green]%d[white]\n", i+1, w.Word, w.Count)
		}
		if len(words) == 0 {
			fmt.Fprintln(a.wordsView, "[dim]No recurring words[white]")
		}

		a.emojisView.Clear()
		for i, e := range emojis {
			fmt.Fprintf(a.emojisView, "[yellow]%4d.[white] %s  [green]%d[white]\n", i+1, e.Emoji, e.Count)
		}
		if len(emojis) == 0 {
			fmt.Fprintln(a.emojisView, "[dim]No emojis[white]")
		}
	})
	a.updateStatusBar(fmt.Sprintf("[green]%d words, %d emojis", len(words), len(emojis)))
}

// firstLine truncates a post to a single table-friendly line.
func firstLine(text string) string {
	for i, r := range text {
		if r == '\n' {
			return text[:i] + "…"
		}
	}
	return text
}
