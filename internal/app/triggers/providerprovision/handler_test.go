package providerprovision_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dalemusser/fixit/internal/app/system/identity"
	"github.com/dalemusser/fixit/internal/app/system/mailer"
	"github.com/dalemusser/fixit/internal/app/triggers/providerprovision"
	"github.com/dalemusser/fixit/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeProviderStore struct {
	provisioned map[primitive.ObjectID]string
	failed      map[primitive.ObjectID]string
}

func newFakeProviderStore() *fakeProviderStore {
	return &fakeProviderStore{
		provisioned: map[primitive.ObjectID]string{},
		failed:      map[primitive.ObjectID]string{},
	}
}

func (f *fakeProviderStore) MarkProvisioned(_ context.Context, id primitive.ObjectID, uid string) error {
	f.provisioned[id] = uid
	return nil
}

func (f *fakeProviderStore) MarkProvisionFailed(_ context.Context, id primitive.ObjectID, message string) error {
	f.failed[id] = message
	return nil
}

type createdAccount struct {
	email       string
	password    string
	displayName string
	forceChange bool
}

type fakeProvisioner struct {
	uid     string
	err     error
	created []createdAccount
	// emails already registered; Create conflicts on them
	registered map[string]bool
}

func (f *fakeProvisioner) Create(_ context.Context, email, password, displayName string, opts identity.CreateOptions) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.registered[email] {
		return "", fmt.Errorf("%w: %s", identity.ErrEmailExists, email)
	}
	if f.registered == nil {
		f.registered = map[string]bool{}
	}
	f.registered[email] = true
	f.created = append(f.created, createdAccount{
		email:       email,
		password:    password,
		displayName: displayName,
		forceChange: opts.ForcePasswordChange,
	})
	return f.uid, nil
}

type fakeMailer struct {
	sent []mailer.Email
	err  error
}

func (f *fakeMailer) Send(msg mailer.Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newProvider(email, name string) models.Provider {
	return models.Provider{
		ID:           primitive.NewObjectID(),
		ContractorID: primitive.NewObjectID(),
		Name:         name,
		Email:        email,
	}
}

func TestHandleCreated_ProvisionScenario(t *testing.T) {
	providers := newFakeProviderStore()
	prov := &fakeProvisioner{uid: "auth123"}
	mail := &fakeMailer{}
	h := providerprovision.NewHandler(providers, prov, mail, zap.NewNop())
	h.GeneratePassword = func() string { return "tempPW34abcd" }

	p := newProvider("p@x.com", "Jo")
	if err := h.HandleCreated(context.Background(), p); err != nil {
		t.Fatalf("HandleCreated failed: %v", err)
	}

	if uid := providers.provisioned[p.ID]; uid != "auth123" {
		t.Errorf("linked uid: got %q, want %q", uid, "auth123")
	}
	if len(providers.failed) != 0 {
		t.Errorf("no failure marker expected, got %v", providers.failed)
	}
	if len(prov.created) != 1 {
		t.Fatalf("accounts created: got %d, want 1", len(prov.created))
	}
	acct := prov.created[0]
	if acct.email != "p@x.com" || acct.displayName != "Jo" {
		t.Errorf("account: got %+v", acct)
	}
	if acct.password != "tempPW34abcd" {
		t.Errorf("account password: got %q", acct.password)
	}
	if !acct.forceChange {
		t.Error("account should force a password change on first login")
	}
	if len(mail.sent) != 1 {
		t.Fatalf("emails sent: got %d, want 1", len(mail.sent))
	}
	if mail.sent[0].To != "p@x.com" {
		t.Errorf("email to: got %q", mail.sent[0].To)
	}
	if !strings.Contains(mail.sent[0].TextBody, "tempPW34abcd") {
		t.Error("email should contain the temporary password")
	}
}

func TestHandleCreated_MissingEmailIsSilentSkip(t *testing.T) {
	providers := newFakeProviderStore()
	prov := &fakeProvisioner{uid: "auth123"}
	mail := &fakeMailer{}
	h := providerprovision.NewHandler(providers, prov, mail, zap.NewNop())

	if err := h.HandleCreated(context.Background(), newProvider("", "Jo")); err != nil {
		t.Fatalf("HandleCreated failed: %v", err)
	}

	if len(prov.created) != 0 {
		t.Errorf("no account should be created, got %d", len(prov.created))
	}
	if len(providers.provisioned) != 0 || len(providers.failed) != 0 {
		t.Error("record must be left exactly as created on the skip path")
	}
	if len(mail.sent) != 0 {
		t.Errorf("no email expected, got %d", len(mail.sent))
	}
}

func TestHandleCreated_ConflictRecordsError(t *testing.T) {
	providers := newFakeProviderStore()
	prov := &fakeProvisioner{uid: "authX", registered: map[string]bool{"dup@x.com": true}}
	mail := &fakeMailer{}
	h := providerprovision.NewHandler(providers, prov, mail, zap.NewNop())

	p := newProvider("dup@x.com", "Dup")
	if err := h.HandleCreated(context.Background(), p); err != nil {
		t.Fatalf("conflict is terminal for the record, not a handler error: %v", err)
	}

	msg, ok := providers.failed[p.ID]
	if !ok {
		t.Fatal("expected auth_creation_error to be recorded")
	}
	if !strings.Contains(msg, "dup@x.com") {
		t.Errorf("failure message should carry the provisioner's message, got %q", msg)
	}
	if len(providers.provisioned) != 0 {
		t.Error("user_id must not be set on the failure path")
	}
	if len(mail.sent) != 0 {
		t.Errorf("no email on the failure path, got %d", len(mail.sent))
	}
}

// Exactly one of user_id / auth_creation_error after completion, for both
// outcomes of the identity provisioner.
func TestHandleCreated_MutualExclusivity(t *testing.T) {
	for _, conflict := range []bool{false, true} {
		name := "success"
		if conflict {
			name = "conflict"
		}
		t.Run(name, func(t *testing.T) {
			providers := newFakeProviderStore()
			prov := &fakeProvisioner{uid: "auth-1"}
			if conflict {
				prov.registered = map[string]bool{"p@x.com": true}
			}
			h := providerprovision.NewHandler(providers, prov, &fakeMailer{}, zap.NewNop())

			p := newProvider("p@x.com", "Jo")
			if err := h.HandleCreated(context.Background(), p); err != nil {
				t.Fatalf("HandleCreated failed: %v", err)
			}

			_, hasUID := providers.provisioned[p.ID]
			_, hasErr := providers.failed[p.ID]
			if hasUID == hasErr {
				t.Errorf("want exactly one outcome marker, got uid=%v err=%v", hasUID, hasErr)
			}
		})
	}
}

// Replaying a creation event is not idempotent: the second run conflicts on
// the registered email and records auth_creation_error. This documents the
// at-least-once behavior; it is not a bug to silently fix here.
func TestHandleCreated_ReplayedEventRecordsConflict(t *testing.T) {
	providers := newFakeProviderStore()
	prov := &fakeProvisioner{uid: "auth-1"}
	mail := &fakeMailer{}
	h := providerprovision.NewHandler(providers, prov, mail, zap.NewNop())

	p := newProvider("replay@x.com", "Jo")
	if err := h.HandleCreated(context.Background(), p); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if err := h.HandleCreated(context.Background(), p); err != nil {
		t.Fatalf("second delivery failed: %v", err)
	}

	if _, ok := providers.provisioned[p.ID]; !ok {
		t.Error("first delivery should have linked the account")
	}
	if _, ok := providers.failed[p.ID]; !ok {
		t.Error("second delivery should have recorded the conflict")
	}
	if len(mail.sent) != 1 {
		t.Errorf("only the first delivery sends mail, got %d", len(mail.sent))
	}
}

func TestHandleCreated_EmailFailurePropagates(t *testing.T) {
	providers := newFakeProviderStore()
	prov := &fakeProvisioner{uid: "auth-1"}
	h := providerprovision.NewHandler(providers, prov, &fakeMailer{err: errors.New("smtp refused")}, zap.NewNop())

	p := newProvider("p@x.com", "Jo")
	if err := h.HandleCreated(context.Background(), p); err == nil {
		t.Fatal("expected email transport error to propagate")
	}
	// The record was already linked before the dispatch failed.
	if uid := providers.provisioned[p.ID]; uid != "auth-1" {
		t.Errorf("linked uid: got %q, want %q", uid, "auth-1")
	}
}

func TestHandleCreated_BlankNameFallsBack(t *testing.T) {
	providers := newFakeProviderStore()
	prov := &fakeProvisioner{uid: "auth-1"}
	h := providerprovision.NewHandler(providers, prov, &fakeMailer{}, zap.NewNop())

	if err := h.HandleCreated(context.Background(), newProvider("p@x.com", "")); err != nil {
		t.Fatalf("HandleCreated failed: %v", err)
	}
	if prov.created[0].displayName != "Provider" {
		t.Errorf("display name: got %q, want %q", prov.created[0].displayName, "Provider")
	}
}
