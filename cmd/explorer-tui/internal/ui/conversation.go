package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func (a *App) createConversationPanel() {
	a.convoInput = tview.NewInputField().
		SetLabel(" With: ").
		SetPlaceholder("username of the other participant")
	a.convoInput.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		other := strings.TrimSpace(strings.TrimPrefix(a.convoInput.GetText(), "@"))
		if other != "" {
			go a.loadConversation(other)
		}
	})

	a.transcript = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.transcript.SetBorder(true).SetTitle(" Transcript ")

	a.convoView = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.convoInput, 1, 0, true).
		AddItem(a.transcript, 0, 1, false)
}

// loadConversation renders the threaded transcript between the open
// account and another username.
func (a *App) loadConversation(other string) {
	s := a.requireSession()
	if s == nil {
		return
	}
	a.updateStatusBar(fmt.Sprintf("Reconstructing conversation with @%s...", other))

	ctx, cancel := context.WithTimeout(a.ctx, a.cfg.RequestTimeout)
	defer cancel()

	messages, err := a.api.Conversation(ctx, s.ID, other)
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Conversation failed: %v", err))
		return
	}

	a.app.QueueUpdateDraw(func() {
		a.transcript.Clear()
		if len(messages) == 0 {
			fmt.Fprintf(a.transcript, "[dim]No interaction between @%s and @%s[white]\n", s.Account.Username, other)
			return
		}
		for _, msg := range messages {
			indent := strings.Repeat("  ", msg.Depth)
			color := senderColor(msg.Sender)
			label := msg.Sender
			if msg.Sender == "A" {
				label = s.Account.Username
			} else if msg.Sender == "B" {
				label = other
			}
			fmt.Fprintf(a.transcript, "%s[%s::b]@%s[white] [dim]%s (%s)[white]\n%s%s\n\n",
				indent, color, label, msg.CreatedAt.Format("2006-01-02 15:04"), msg.Type,
				indent, msg.Text)
		}
		a.app.SetFocus(a.transcript)
	})
	a.updateStatusBar(fmt.Sprintf("[green]%d message(s)", len(messages)))
}

func senderColor(sender string) string {
	switch sender {
	case "A":
		return "green"
	case "B":
		return "aqua"
	default:
		return "gray"
	}
}
