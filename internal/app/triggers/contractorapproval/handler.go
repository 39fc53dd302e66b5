// Package contractorapproval reacts to contractor records being approved.
//
// The handler is edge-triggered: side effects fire only when status moves
// from a non-approved value to "approved". Re-writing "approved" over
// "approved", or any other transition, is inert.
package contractorapproval

import (
	"context"
	"errors"
	"fmt"

	contractorstore "github.com/dalemusser/fixit/internal/app/store/contractors"
	userstore "github.com/dalemusser/fixit/internal/app/store/users"
	"github.com/dalemusser/fixit/internal/app/system/mailer"
	"github.com/dalemusser/fixit/internal/app/system/push"
	"github.com/dalemusser/fixit/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the slice of the users store the handler needs.
type UserStore interface {
	MarkApproved(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Handler applies the approval side effects for one contractor update.
type Handler struct {
	Users UserStore
	Mail  mailer.Sender
	Push  push.Sender
	Log   *zap.Logger
}

// NewHandler constructs the approval handler with injected collaborators.
func NewHandler(userStore UserStore, mail mailer.Sender, pushSender push.Sender, logger *zap.Logger) *Handler {
	return &Handler{
		Users: userStore,
		Mail:  mail,
		Push:  pushSender,
		Log:   logger,
	}
}

// HandleUpdate processes one contractor update event.
//
// On the non-approved -> approved edge it flags the owning user approved,
// emails them, and sends a best-effort push notification. A missing owning
// user is logged and terminal: no notifications go out. An email transport
// failure propagates to the caller (the watch loop logs it and the event is
// not replayed by us; the stream may redeliver after a resume).
func (h *Handler) HandleUpdate(ctx context.Context, ev contractorstore.UpdateEvent) error {
	// Without a pre-image there is no way to tell an approval edge from a
	// no-op write to an already-approved record, so the event is skipped
	// rather than risking duplicate notifications.
	if ev.Before.ID.IsZero() {
		h.Log.Warn("contractor update without pre-image skipped",
			zap.String("contractor_id", ev.After.ID.Hex()))
		return nil
	}
	if ev.Before.Status == models.ContractorApproved || ev.After.Status != models.ContractorApproved {
		return nil
	}

	if err := h.Users.MarkApproved(ctx, ev.After.CreatedBy); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.Log.Error("contractor approved but owning user not found",
				zap.String("contractor_id", ev.After.ID.Hex()),
				zap.String("created_by", ev.After.CreatedBy.Hex()))
			return nil
		}
		return fmt.Errorf("flag user approved: %w", err)
	}

	u, err := h.Users.GetByID(ctx, ev.After.CreatedBy)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			// Deleted between the update and the read; nothing to notify.
			h.Log.Warn("approved user vanished before notification",
				zap.String("created_by", ev.After.CreatedBy.Hex()))
			return nil
		}
		return fmt.Errorf("read approved user: %w", err)
	}

	if u.Email != "" {
		msg := mailer.BuildContractorApprovedEmail()
		msg.To = u.Email
		if err := h.Mail.Send(msg); err != nil {
			return fmt.Errorf("send approval email: %w", err)
		}
	}

	// Best-effort: a push failure (including no registered token) is logged
	// and discarded.
	if err := h.Push.Send(ctx, u.FCMToken, push.Notification{
		Title: "Account Approved",
		Body:  "Your contractor account is approved.",
		Data:  map[string]string{"type": "contractor_approved"},
	}); err != nil {
		h.Log.Info("push notification not delivered",
			zap.String("user_id", u.ID.Hex()),
			zap.Error(err))
	}

	h.Log.Info("contractor approval propagated",
		zap.String("contractor_id", ev.After.ID.Hex()),
		zap.String("user_id", u.ID.Hex()))
	return nil
}
