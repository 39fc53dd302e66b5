// Package providerprovision reacts to provider records being created under
// a contractor: it provisions an auth account with a temporary password and
// emails the credentials to the provider.
//
// Provisioning fires on creation only. There is no reconciliation of
// half-completed records here; a replayed creation event hits the
// duplicate-email conflict and lands in the failure path, which is the
// documented behavior under at-least-once delivery.
package providerprovision

import (
	"context"
	"fmt"

	"github.com/dalemusser/fixit/internal/app/system/identity"
	"github.com/dalemusser/fixit/internal/app/system/mailer"
	"github.com/dalemusser/fixit/internal/app/system/temppass"
	"github.com/dalemusser/fixit/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProviderStore is the slice of the providers store the handler needs.
type ProviderStore interface {
	MarkProvisioned(ctx context.Context, id primitive.ObjectID, uid string) error
	MarkProvisionFailed(ctx context.Context, id primitive.ObjectID, message string) error
}

// Provisioner creates auth accounts. identity.Provisioner satisfies this.
type Provisioner interface {
	Create(ctx context.Context, email, password, displayName string, opts identity.CreateOptions) (string, error)
}

// Handler provisions an auth account for one created provider record.
type Handler struct {
	Providers ProviderStore
	Identity  Provisioner
	Mail      mailer.Sender
	Log       *zap.Logger

	// GeneratePassword produces temp passwords; overridable in tests.
	GeneratePassword func() string
}

// NewHandler constructs the provisioning handler with injected collaborators.
func NewHandler(providers ProviderStore, provisioner Provisioner, mail mailer.Sender, logger *zap.Logger) *Handler {
	return &Handler{
		Providers:        providers,
		Identity:         provisioner,
		Mail:             mail,
		Log:              logger,
		GeneratePassword: temppass.Generate,
	}
}

// HandleCreated processes one provider-created event.
//
// A record without an email is skipped silently: no account, no mutation,
// no error markers. Otherwise exactly one of user_id or
// auth_creation_error ends up on the record. The welcome email is sent
// only on the success path; its transport error propagates to the caller
// after the record has already been linked.
func (h *Handler) HandleCreated(ctx context.Context, p models.Provider) error {
	if p.Email == "" {
		h.Log.Info("provider created without email; skipping auth creation",
			zap.String("provider_id", p.ID.Hex()))
		return nil
	}

	displayName := p.Name
	if displayName == "" {
		displayName = "Provider"
	}

	tempPassword := h.GeneratePassword()

	uid, err := h.Identity.Create(ctx, p.Email, tempPassword, displayName,
		identity.CreateOptions{ForcePasswordChange: true})
	if err != nil {
		h.Log.Error("provider auth creation failed",
			zap.String("provider_id", p.ID.Hex()),
			zap.Error(err))
		if markErr := h.Providers.MarkProvisionFailed(ctx, p.ID, err.Error()); markErr != nil {
			return fmt.Errorf("record auth creation error: %w", markErr)
		}
		return nil
	}

	if err := h.Providers.MarkProvisioned(ctx, p.ID, uid); err != nil {
		return fmt.Errorf("link provider to auth account: %w", err)
	}

	msg := mailer.BuildProviderAccountEmail(mailer.ProviderAccountEmailData{
		DisplayName:  displayName,
		TempPassword: tempPassword,
	})
	msg.To = p.Email
	if err := h.Mail.Send(msg); err != nil {
		return fmt.Errorf("send provider account email: %w", err)
	}

	h.Log.Info("provider account provisioned",
		zap.String("provider_id", p.ID.Hex()),
		zap.String("uid", uid))
	return nil
}
