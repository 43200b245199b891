package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"unimarket/contract"
	"unimarket/domain/chat"
	"unimarket/moderation"
	"unimarket/observability"
	"unimarket/repositories"
)

// IChatService implements the per-message protocol of an active chat
// session: parse the inbound envelope, resolve the receiver, persist, and
// hand off to delivery. It also serves the history fetch used by the REST
// surface.
type IChatService interface {
	HandleInbound(ctx context.Context, sender repositories.User, payload []byte, senderSink contract.Sink) error
	History(userID string) ([]chat.Envelope, error)
	Conversations(userID string) ([]Conversation, error)
}

// Conversation is one inbox thread: the peer's identity plus the exchanged
// messages in wire form.
type Conversation struct {
	PeerID   string
	PeerName string
	Messages []chat.Envelope
}

// Deliverer routes one persisted message to its interested sinks.
type Deliverer interface {
	Deliver(ctx context.Context, envelope chat.Envelope, sender contract.Sink) error
}

type ChatService struct {
	directory IUserDirectory
	messages  repositories.IMessageRepository
	router    Deliverer
	moderator *moderation.Moderator
	metrics   *observability.Metrics
	log       *slog.Logger
}

func NewChatService(
	log *slog.Logger,
	directory IUserDirectory,
	messages repositories.IMessageRepository,
	router Deliverer,
	moderator *moderation.Moderator,
	metrics *observability.Metrics,
) *ChatService {
	return &ChatService{
		directory: directory,
		messages:  messages,
		router:    router,
		moderator: moderator,
		metrics:   metrics,
		log:       log,
	}
}

// HandleInbound processes exactly one payload from an active session.
// Every failure is scoped to this payload: the connection stays open and
// the sender is told inline what went wrong. The returned error is only
// ever a serialization bug, never a user-visible condition.
func (s *ChatService) HandleInbound(ctx context.Context, sender repositories.User, payload []byte, senderSink contract.Sink) error {
	var inbound chat.Inbound
	if err := json.Unmarshal(payload, &inbound); err != nil {
		s.log.Warn("dropping malformed payload", "sender", sender.ID, "error", err)
		s.metrics.MalformedPayloads.Inc()
		return nil
	}

	// No receiver: ephemeral loopback acknowledgment, nothing stored.
	if inbound.Receiver == nil {
		return s.reply(ctx, senderSink, chat.EchoEnvelope{Message: inbound.Message})
	}

	receiver, err := s.directory.ResolveIdentity(*inbound.Receiver)
	if err != nil {
		return s.reply(ctx, senderSink, chat.ErrorEnvelope{Error: "Receiver not found."})
	}

	text := inbound.Message
	if s.moderator != nil {
		text = s.moderator.Censor(text)
	}
	if s.log.Enabled(ctx, slog.LevelDebug) {
		s.log.Debug("inbound message", "sender", sender.ID, "receiver", receiver.ID,
			"lang", moderation.Language(text))
	}

	message, err := s.messages.Append(sender.ID, receiver.ID, text)
	if err != nil {
		s.log.Error("message store append failed", "sender", sender.ID, "error", err)
		return s.reply(ctx, senderSink, chat.ErrorEnvelope{Error: "Message could not be saved."})
	}
	s.metrics.MessagesPersisted.Inc()

	return s.router.Deliver(ctx, toEnvelope(message, sender, receiver), senderSink)
}

// History returns every message the user sent or received, in store order,
// serialized in the same envelope shape the socket uses.
func (s *ChatService) History(userID string) ([]chat.Envelope, error) {
	messages, err := s.messages.ForUser(userID)
	if err != nil {
		return nil, err
	}

	lookup := s.identityLookup()
	envelopes := make([]chat.Envelope, 0, len(messages))
	for _, message := range messages {
		envelopes = append(envelopes, toEnvelope(message, lookup(message.SenderID), lookup(message.ReceiverID)))
	}
	return envelopes, nil
}

// Conversations splits the user's history into per-peer threads, most
// recent activity first.
func (s *ChatService) Conversations(userID string) ([]Conversation, error) {
	messages, err := s.messages.ForUser(userID)
	if err != nil {
		return nil, err
	}

	lookup := s.identityLookup()
	threads := chat.Threads(userID, messages)
	conversations := make([]Conversation, 0, len(threads))
	for _, thread := range threads {
		envelopes := make([]chat.Envelope, 0, len(thread.Messages))
		for _, message := range thread.Messages {
			envelopes = append(envelopes, toEnvelope(message, lookup(message.SenderID), lookup(message.ReceiverID)))
		}
		conversations = append(conversations, Conversation{
			PeerID:   thread.Peer,
			PeerName: lookup(thread.Peer).Username,
			Messages: envelopes,
		})
	}
	return conversations, nil
}

// identityLookup returns a memoizing resolver. Participants repeat heavily
// across a conversation; each identity is resolved once per call.
func (s *ChatService) identityLookup() func(id string) repositories.User {
	resolved := make(map[string]repositories.User)
	return func(id string) repositories.User {
		if user, ok := resolved[id]; ok {
			return user
		}
		user, err := s.directory.ResolveIdentity(id)
		if err != nil {
			// Deleted account: keep the message, show the bare id.
			user = repositories.User{ID: id, Username: id}
		}
		resolved[id] = user
		return user
	}
}

func (s *ChatService) reply(ctx context.Context, sink contract.Sink, envelope any) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if err := sink.Deliver(ctx, payload); err != nil {
		s.log.Warn("inline reply delivery failed", "error", err)
	}
	return nil
}

func toEnvelope(message chat.Message, sender, receiver repositories.User) chat.Envelope {
	return chat.Envelope{
		ID:                     message.ID.String(),
		Sender:                 sender.ID,
		Receiver:               receiver.ID,
		Text:                   message.Text,
		Timestamp:              message.CreatedAt,
		SenderName:             sender.Username,
		ReceiverName:           receiver.Username,
		SenderProfilePicture:   sender.ProfilePicture,
		ReceiverProfilePicture: receiver.ProfilePicture,
	}
}
