package ui

import (
	"github.com/rivo/tview"
)

// createHelpPanel creates the help panel.
func (a *App) createHelpPanel() {
	a.helpView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.helpView.SetBorder(true).SetTitle(" Help ")

	helpText := `[yellow::b]ArchiveLens TUI - Terminal Archive Explorer[white]

Browse archived accounts, open explorer sessions, and read engagement
reports against a running ArchiveLens server.

[yellow::b]GLOBAL NAVIGATION[white]
[cyan]1[white]        Accounts       - Directory and account search
[cyan]2[white]        Top Posts      - Most liked / retweeted posts
[cyan]3[white]        Ratios         - Engagement ratio extremes
[cyan]4[white]        Words          - Word cloud and emoji reports
[cyan]5[white]        Search         - Boolean search over post history
[cyan]6[white]        Conversation   - Two-party thread reconstruction
[cyan]?[white]        Help           - This help screen
[cyan]q[white]        Quit           - Exit the application
[cyan]x[white]        Cancel         - Stop the history download
[cyan]c[white]        Close          - Discard the open session
[cyan]Escape[white]   Accounts       - Return to the directory

[yellow::b]ACCOUNTS PANEL[white]
The directory lists archived accounts, most followed first.
[cyan]/[white]        Focus the search field
[cyan]Enter[white]    Open an explorer session for the selected account

Opening a session starts a background download of the account's full
post history; the status bar tracks progress. Reports that need the
full history (ratios, words, search) wait until it finishes.

[yellow::b]TOP POSTS PANEL[white]
[cyan]m[white]        Toggle metric (likes / retweets)

[yellow::b]SEARCH PANEL[white]
Boolean queries over the cached history:
- space-separated terms must all match
- [white::b]"quoted phrases"[white] must appear verbatim
- [white::b]or[white] separates alternative groups
- an empty query matches every post
[cyan]s[white]        Cycle sort key (likes, retweets, date, none)
[cyan]d[white]        Cycle sort direction (desc, asc, none)

[yellow::b]CONVERSATION PANEL[white]
Enter another username to rebuild the back-and-forth between it and
the open account. Replies are indented under the post they answer.

[yellow::b]ENVIRONMENT VARIABLES[white]
[cyan]ARCHIVELENS_SERVER_URL[white]        Server URL (default: http://localhost:9283)
[cyan]ARCHIVELENS_API_KEY[white]           API key, if the server requires one
[cyan]ARCHIVELENS_PROGRESS_REFRESH[white]  Progress poll interval (default: 2s)
[cyan]ARCHIVELENS_REQUEST_TIMEOUT[white]   Report request timeout (default: 5m)

[dim]Press any navigation key to return to a panel[white]
`

	a.helpView.SetText(helpText)
}
