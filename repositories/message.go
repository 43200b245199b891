//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"unimarket/domain/chat"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	Append(senderID, receiverID, text string) (chat.Message, error)
	ForUser(userID string) ([]chat.Message, error)
}

// MessageRepository is an append-only store for direct messages.
// Records are immutable once written; there is no update or delete path.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger

	// lastNanos guards the per-store monotonicity of assigned timestamps:
	// two appends racing across a clock step must never be stored with a
	// decreasing timestamp.
	mu        sync.Mutex
	lastNanos int64
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

type diskMessage struct {
	ID       string `cbor:"id"`
	Sender   string `cbor:"sender"`
	Receiver string `cbor:"receiver"`
	Text     string `cbor:"text"`
	At       int64  `cbor:"at"` // unix nanos
}

// Append assigns an id and a server timestamp, then persists the message.
// The primary key is "msg:{timestamp_padded}:{uuid}":
//  1. 19-digit zero padding keeps keys in chronological order under
//     lexicographical iteration.
//  2. The UUID suffix disambiguates two messages stored in the same
//     nanosecond.
//
// Two additional index keys "usr:{user}:{timestamp_padded}:{uuid}" (one per
// participant) point back at the primary key so a user's history is a single
// prefix scan.
func (m *MessageRepository) Append(senderID, receiverID, text string) (chat.Message, error) {
	m.mu.Lock()
	nanos := time.Now().UTC().UnixNano()
	if nanos < m.lastNanos {
		nanos = m.lastNanos
	}
	m.lastNanos = nanos
	m.mu.Unlock()

	message := chat.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Unix(0, nanos).UTC(),
	}

	primaryKey := messageKey(nanos, message.ID)
	bytes, err := cbor.Marshal(fromMessage(message))
	if err != nil {
		return chat.Message{}, err
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(primaryKey, bytes); err != nil {
			return err
		}
		if err := txn.Set(userIndexKey(senderID, nanos, message.ID), primaryKey); err != nil {
			return err
		}
		return txn.Set(userIndexKey(receiverID, nanos, message.ID), primaryKey)
	})
	if err != nil {
		return chat.Message{}, err
	}
	return message, nil
}

// ForUser retrieves every message the user sent or received, oldest first.
// Thanks to the padded timestamp in the index key the prefix scan already
// yields chronological order; the final sort only settles sender/receiver
// index entries that share a timestamp.
func (m *MessageRepository) ForUser(userID string) ([]chat.Message, error) {
	var primaryKeys [][]byte
	prefix := []byte(fmt.Sprintf("usr:%s:", userID))

	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				key := make([]byte, len(value))
				copy(key, value)
				primaryKeys = append(primaryKeys, key)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var messages []chat.Message
	err = m.db.View(func(txn *badger.Txn) error {
		for _, key := range primaryKeys {
			item, err := txn.Get(key)
			if err != nil {
				return err
			}
			err = item.Value(func(value []byte) error {
				var dm diskMessage
				if err := cbor.Unmarshal(value, &dm); err != nil {
					return err
				}
				message, err := toMessage(dm)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func messageKey(nanos int64, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%019d:%s", nanos, id))
}

func userIndexKey(userID string, nanos int64, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("usr:%s:%019d:%s", userID, nanos, id))
}

func fromMessage(message chat.Message) diskMessage {
	return diskMessage{
		ID:       message.ID.String(),
		Sender:   message.SenderID,
		Receiver: message.ReceiverID,
		Text:     message.Text,
		At:       message.CreatedAt.UnixNano(),
	}
}

func toMessage(dm diskMessage) (chat.Message, error) {
	parsedID, err := uuid.Parse(dm.ID)
	if err != nil {
		return chat.Message{}, err
	}
	return chat.Message{
		ID:         parsedID,
		SenderID:   dm.Sender,
		ReceiverID: dm.Receiver,
		Text:       dm.Text,
		CreatedAt:  time.Unix(0, dm.At).UTC(),
	}, nil
}
