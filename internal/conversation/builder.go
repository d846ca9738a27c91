// Package conversation reconstructs the interaction history between two
// accounts from replies, mentions, and the parent posts they point at,
// ordered as threads rather than a flat timeline.
package conversation

import (
	"sort"
	"time"

	"github.com/iconidentify/archivelens/internal/domain"
)

// Thread orders messages into a threaded transcript. Replies nest under
// their parent when the parent is present; a message whose parent is
// missing starts its own thread. Threads are ordered oldest-activity
// first, where a thread's activity is the newest timestamp anywhere in
// it. Within a thread the walk is pre-order with siblings ascending by
// creation time, and Depth records the nesting level.
func Thread(messages []domain.Message) []domain.Message {
	byID := make(map[domain.PostID]*domain.Message, len(messages))
	order := make([]*domain.Message, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		if _, dup := byID[m.ID]; dup {
			continue
		}
		byID[m.ID] = m
		order = append(order, m)
	}

	children := make(map[domain.PostID][]*domain.Message)
	for _, m := range order {
		if m.ReplyToPostID == "" {
			continue
		}
		children[m.ReplyToPostID] = append(children[m.ReplyToPostID], m)
	}
	for _, replies := range children {
		sort.SliceStable(replies, func(i, j int) bool {
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		})
	}

	var roots []*domain.Message
	for _, m := range order {
		if m.ReplyToPostID == "" {
			roots = append(roots, m)
			continue
		}
		if _, ok := byID[m.ReplyToPostID]; !ok {
			roots = append(roots, m)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return latestActivity(roots[i], children).Before(latestActivity(roots[j], children))
	})

	type frame struct {
		msg   *domain.Message
		depth int
	}

	visited := make(map[domain.PostID]bool, len(order))
	result := make([]domain.Message, 0, len(order))

	for _, root := range roots {
		stack := []frame{{msg: root, depth: 0}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if visited[top.msg.ID] {
				continue
			}
			visited[top.msg.ID] = true

			top.msg.Depth = top.depth
			result = append(result, *top.msg)

			// Push in reverse so siblings pop oldest-first.
			replies := children[top.msg.ID]
			for i := len(replies) - 1; i >= 0; i-- {
				stack = append(stack, frame{msg: replies[i], depth: top.depth + 1})
			}
		}
	}

	return result
}

// latestActivity finds the newest timestamp in the thread rooted at m.
func latestActivity(m *domain.Message, children map[domain.PostID][]*domain.Message) time.Time {
	latest := m.CreatedAt
	stack := []*domain.Message{m}
	seen := map[domain.PostID]bool{}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur.ID] {
			continue
		}
		seen[cur.ID] = true
		if cur.CreatedAt.After(latest) {
			latest = cur.CreatedAt
		}
		stack = append(stack, children[cur.ID]...)
	}
	return latest
}
