package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"talk-gate/contract"
	"talk-gate/domain"
	"talk-gate/domain/event"
	"talk-gate/errors"
	"talk-gate/repositories"
	"time"
)

type IPermissionService interface {
	AskPermission(ctx context.Context, requesterID, grantorID string) (domain.Conversation, error)
	GrantPermission(ctx context.Context, grantorID, requesterID string) (domain.Conversation, error)
	DenyPermission(ctx context.Context, grantorID, requesterID string) (domain.Conversation, error)
	EndConversation(ctx context.Context, actorID, peerID string) (domain.Conversation, error)
	FindRequestsReceived(ctx context.Context, identityID string) ([]domain.Conversation, error)
	SendPrivateMessage(ctx context.Context, senderID, recipientID, body string) (domain.Conversation, error)
}

// PermissionService drives the ask -> grant/deny handshake.
// Identity ledgers and conversations live in separate records without a
// shared transaction: every step is idempotent and a failure after the first
// applied step is reported as a PartialFailureError naming the step.
type PermissionService struct {
	conversations IConversationService
	identities    repositories.IIdentityRepository
	sink          contract.NotificationSink
	policy        domain.PendingPolicy
	log           *slog.Logger
	now           func() time.Time
}

func NewPermissionService(
	conversations IConversationService,
	identities repositories.IIdentityRepository,
	sink contract.NotificationSink,
	policy domain.PendingPolicy,
	log *slog.Logger,
) *PermissionService {
	if policy == "" {
		policy = domain.PendingDiscard
	}
	return &PermissionService{
		conversations: conversations,
		identities:    identities,
		sink:          sink,
		policy:        policy,
		log:           log,
		now:           utcNow,
	}
}

// AskPermission makes requesterID ask grantorID for permission to talk.
// Asking again while the request is pending returns the same conversation.
// When the pair already has a conversation that is not a pending request of
// requesterID, it is returned unchanged.
func (s *PermissionService) AskPermission(ctx context.Context, requesterID, grantorID string) (domain.Conversation, error) {
	if err := validateHandshake(requesterID, grantorID); err != nil {
		return domain.Conversation{}, err
	}
	grantor, err := s.identities.FindByID(ctx, grantorID)
	if err != nil {
		return domain.Conversation{}, err
	}
	requester, err := s.identities.FindByID(ctx, requesterID)
	if err != nil {
		return domain.Conversation{}, err
	}

	conversation, err := s.conversations.FindPrivateConversation(ctx, []string{requesterID, grantorID})
	switch {
	case err == nil:
		// Only a pending request of requesterID can be asked again. A request
		// made by the grantor or a conversation past the handshake has nothing
		// the grantor could answer, so the ledger is left alone.
		if conversation.Status != domain.StatusRequested || conversation.CreatedBy.ID != requesterID {
			s.log.Debug("Nothing to ask", "conversation_id", conversation.ID,
				"status", conversation.Status, "created_by", conversation.CreatedBy.ID)
			return conversation, nil
		}
		if grantor.PermissionLedger().HasRequestFrom(requesterID) {
			return conversation, nil
		}
	case !stderrors.Is(err, errors.ErrNotFound):
		return domain.Conversation{}, err
	case grantor.PermissionLedger().HasRequestFrom(requesterID):
		// A previous ask stopped after recording the request: finish it.
		s.log.Warn("Pending request without conversation, resuming", "requester", requesterID, "grantor", grantorID)
	}

	plan := newSteps("askPermission")
	err = plan.run("grantor.requests.add", func() error {
		_, err := s.identities.UpdateLedger(ctx, grantorID, func(l *domain.Ledger) { l.AddRequest(requesterID) })
		return err
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	err = plan.run("conversation.findOrCreate", func() error {
		var err error
		conversation, err = s.conversations.FindOrCreate(ctx, requesterID, []string{requesterID, grantorID})
		return err
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	if conversation.CreatedBy.ID != requesterID {
		// The grantor asked first in the meantime: there is nothing to answer.
		err = plan.run("grantor.requests.remove", func() error {
			_, err := s.identities.UpdateLedger(ctx, grantorID, func(l *domain.Ledger) { l.RemoveRequest(requesterID) })
			return err
		})
		if err != nil {
			return domain.Conversation{}, err
		}
		return conversation, nil
	}

	s.notify(ctx, event.Notification{
		Type:           event.ConversationPermissionAsked,
		Recipient:      grantor.Actor(),
		From:           requester.Actor(),
		ConversationID: conversation.ID,
	})
	return conversation, nil
}

// GrantPermission lets grantorID accept the request of requesterID and starts
// their conversation. Replaying a grant that already started the conversation
// only re-applies the idempotent ledger steps.
func (s *PermissionService) GrantPermission(ctx context.Context, grantorID, requesterID string) (domain.Conversation, error) {
	conversation, err := s.handshakeConversation(ctx, grantorID, requesterID, domain.StatusStarted)
	if err != nil {
		return domain.Conversation{}, err
	}
	requester, err := s.identities.FindByID(ctx, requesterID)
	if err != nil {
		return domain.Conversation{}, err
	}

	plan := newSteps("grantPermission")
	err = plan.run("grantor.ledger", func() error {
		_, err := s.identities.UpdateLedger(ctx, grantorID, func(l *domain.Ledger) {
			l.RemoveRequest(requesterID)
			l.AddAllowed(requesterID)
		})
		return err
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	err = plan.run("requester.allowed.add", func() error {
		_, err := s.identities.UpdateLedger(ctx, requesterID, func(l *domain.Ledger) { l.AddAllowed(grantorID) })
		return err
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	if conversation.Status != domain.StatusStarted {
		err = plan.run("conversation.start", func() error {
			var err error
			conversation, err = s.conversations.Start(ctx, conversation.ID)
			return err
		})
		if err != nil {
			return domain.Conversation{}, err
		}
	}

	var delivered []domain.Message
	if s.policy == domain.PendingDeliver && len(conversation.Pending) > 0 {
		delivered = conversation.Pending
		err = plan.run("conversation.deliverPending", func() error {
			var err error
			conversation, err = s.conversations.DeliverPending(ctx, conversation.ID)
			return err
		})
		if err != nil {
			return domain.Conversation{}, err
		}
	}

	grantor, _ := conversation.Participant(grantorID)
	s.notify(ctx, event.Notification{
		Type:           event.ConversationPermissionGranted,
		Recipient:      requester.Actor(),
		From:           grantor,
		ConversationID: conversation.ID,
	})
	for _, m := range delivered {
		s.notify(ctx, event.Notification{
			Type:           event.PrivateMessageReceived,
			Recipient:      grantor,
			From:           requester.Actor(),
			ConversationID: conversation.ID,
			Payload:        map[string]string{"message": m.Body},
		})
	}
	return conversation, nil
}

// DenyPermission refuses the request of requesterID. The allowed sets are untouched.
func (s *PermissionService) DenyPermission(ctx context.Context, grantorID, requesterID string) (domain.Conversation, error) {
	conversation, err := s.handshakeConversation(ctx, grantorID, requesterID, domain.StatusDenied)
	if err != nil {
		return domain.Conversation{}, err
	}

	plan := newSteps("denyPermission")
	err = plan.run("grantor.requests.remove", func() error {
		_, err := s.identities.UpdateLedger(ctx, grantorID, func(l *domain.Ledger) { l.RemoveRequest(requesterID) })
		return err
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	if conversation.Status != domain.StatusDenied {
		err = plan.run("conversation.deny", func() error {
			var err error
			conversation, err = s.conversations.Deny(ctx, conversation.ID)
			return err
		})
		if err != nil {
			return domain.Conversation{}, err
		}
	}

	requester, _ := conversation.Participant(requesterID)
	grantor, _ := conversation.Participant(grantorID)
	s.notify(ctx, event.Notification{
		Type:           event.ConversationPermissionDenied,
		Recipient:      requester,
		From:           grantor,
		ConversationID: conversation.ID,
	})
	return conversation, nil
}

// EndConversation closes a started conversation; neither side can message afterwards.
func (s *PermissionService) EndConversation(ctx context.Context, actorID, peerID string) (domain.Conversation, error) {
	if err := validateHandshake(actorID, peerID); err != nil {
		return domain.Conversation{}, err
	}
	conversation, err := s.conversations.FindPrivateConversation(ctx, []string{actorID, peerID})
	if err != nil {
		return domain.Conversation{}, err
	}
	if conversation.Status == domain.StatusEnded {
		return conversation, nil
	}
	conversation, err = s.conversations.End(ctx, conversation.ID)
	if err != nil {
		return domain.Conversation{}, err
	}

	actor, _ := conversation.Participant(actorID)
	peer, _ := conversation.Participant(peerID)
	s.notify(ctx, event.Notification{
		Type:           event.ConversationEnded,
		Recipient:      peer,
		From:           actor,
		ConversationID: conversation.ID,
	})
	return conversation, nil
}

// FindRequestsReceived lists pending requests sent to identityID by others.
func (s *PermissionService) FindRequestsReceived(ctx context.Context, identityID string) ([]domain.Conversation, error) {
	return s.conversations.FindRequested(ctx, identityID)
}

// SendPrivateMessage posts body to the conversation with recipientID. Without
// a conversation a permission request is sent instead; the body is then
// dropped or held for delivery on grant depending on the pending policy.
func (s *PermissionService) SendPrivateMessage(ctx context.Context, senderID, recipientID, body string) (domain.Conversation, error) {
	err := validateSendPrivateMessage(SendPrivateMessageRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	})
	if err != nil {
		return domain.Conversation{}, err
	}

	conversation, err := s.conversations.FindPrivateConversation(ctx, []string{senderID, recipientID})
	switch {
	case err == nil:
		return s.postMessage(ctx, conversation, senderID, recipientID, body)
	case !stderrors.Is(err, errors.ErrNotFound):
		return domain.Conversation{}, err
	}

	conversation, err = s.AskPermission(ctx, senderID, recipientID)
	if err != nil {
		return domain.Conversation{}, err
	}
	if s.policy == domain.PendingDeliver {
		return s.conversations.QueuePending(ctx, conversation.ID, senderID, body)
	}
	s.log.Info("Message discarded, permission requested first",
		"conversation_id", conversation.ID, "sender", senderID, "recipient", recipientID)
	return conversation, nil
}

func (s *PermissionService) postMessage(ctx context.Context, conversation domain.Conversation, senderID, recipientID, body string) (domain.Conversation, error) {
	switch conversation.Status {
	case domain.StatusStarted:
	case domain.StatusRequested:
		if s.policy == domain.PendingDeliver {
			return s.conversations.QueuePending(ctx, conversation.ID, senderID, body)
		}
		return domain.Conversation{}, fmt.Errorf("%w: conversation %s is waiting for permission",
			errors.ErrPermission, conversation.ID)
	default:
		return domain.Conversation{}, fmt.Errorf("%w: conversation %s is %s",
			errors.ErrPermission, conversation.ID, conversation.Status)
	}

	conversation, err := s.conversations.AddMessage(ctx, conversation.ID, senderID, body)
	if err != nil {
		return domain.Conversation{}, err
	}
	sent, _ := conversation.LatestMessage()
	recipient, _ := conversation.Participant(recipientID)
	s.notify(ctx, event.Notification{
		Type:           event.PrivateMessageReceived,
		Recipient:      recipient,
		From:           sent.Sender,
		ConversationID: conversation.ID,
		Payload:        map[string]string{"message": sent.Body},
	})
	return conversation, nil
}

// handshakeConversation loads the pair conversation for a grant or deny and
// checks it can reach target before anything is written.
func (s *PermissionService) handshakeConversation(ctx context.Context, grantorID, requesterID string, target domain.Status) (domain.Conversation, error) {
	if err := validateHandshake(grantorID, requesterID); err != nil {
		return domain.Conversation{}, err
	}
	conversation, err := s.conversations.FindPrivateConversation(ctx, []string{grantorID, requesterID})
	if err != nil {
		return domain.Conversation{}, err
	}
	if conversation.CreatedBy.ID == grantorID {
		return domain.Conversation{}, fmt.Errorf("%w: %s asked for this conversation and cannot answer it",
			errors.ErrPermission, grantorID)
	}
	if conversation.Status != target && !conversation.Status.CanTransitionTo(target) {
		return domain.Conversation{}, &errors.InvalidTransitionError{
			ConversationID: conversation.ID,
			From:           conversation.Status.String(),
			To:             target.String(),
		}
	}
	return conversation, nil
}

// notify never fails the calling operation.
func (s *PermissionService) notify(ctx context.Context, n event.Notification) {
	if s.sink == nil {
		return
	}
	n.At = s.now()
	if err := s.sink.Notify(ctx, n); err != nil {
		s.log.Warn("Notification failed", "type", n.Type, "recipient", n.Recipient.ID, "error", err)
	}
}
