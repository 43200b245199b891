// Package chat holds the message model and its projections.
package chat

import (
	"sort"

	"github.com/google/uuid"
)

// Thread is one side of a user's inbox: every message exchanged with a
// single peer, in store order.
type Thread struct {
	Peer     string
	Messages []Message
}

// Threads projects a flat message list into per-peer threads. Duplicate
// message ids are dropped, order within a thread follows the input, and
// threads are sorted by most recent activity. Self-messages thread under
// the owner's own id.
func Threads(owner string, messages []Message) []Thread {
	byPeer := make(map[string]int)
	seen := make(map[uuid.UUID]struct{})
	var threads []Thread

	for _, message := range messages {
		if _, ok := seen[message.ID]; ok {
			continue
		}
		seen[message.ID] = struct{}{}

		peer := message.ReceiverID
		if message.SenderID != owner {
			peer = message.SenderID
		}

		idx, ok := byPeer[peer]
		if !ok {
			idx = len(threads)
			byPeer[peer] = idx
			threads = append(threads, Thread{Peer: peer})
		}
		threads[idx].Messages = append(threads[idx].Messages, message)
	}

	sort.SliceStable(threads, func(i, j int) bool {
		last := func(t Thread) Message { return t.Messages[len(t.Messages)-1] }
		return last(threads[i]).CreatedAt.After(last(threads[j]).CreatedAt)
	})
	return threads
}
