package services

import (
	"fmt"
	"strings"
	"talk-gate/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// HandshakeRequest is used by every operation between an actor and a peer.
type HandshakeRequest struct {
	ActorID string `validate:"required"`
	PeerID  string `validate:"required,nefield=ActorID"`
}

type SendPrivateMessageRequest struct {
	SenderID    string `validate:"required"`
	RecipientID string `validate:"required,nefield=SenderID"`
	Body        string `validate:"required"`
}

func validateHandshake(actorID, peerID string) error {
	if err := validate.Struct(HandshakeRequest{ActorID: actorID, PeerID: peerID}); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	return nil
}

func validateSendPrivateMessage(req SendPrivateMessageRequest) error {
	if strings.TrimSpace(req.Body) == "" {
		return fmt.Errorf("%w: you can't send an empty message", errors.ErrValidation)
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	return nil
}
