package pendingstore_test

import (
	"errors"
	"testing"
	"time"

	pendingstore "github.com/dalemusser/campusride/internal/app/store/pending"
	"github.com/dalemusser/campusride/internal/domain/models"
	"github.com/dalemusser/campusride/internal/testutil"
)

func TestStore_SaveGetDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pendingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := models.PendingRegistration{
		Email:        "asha@vit.edu",
		Name:         "Asha",
		PRN:          "12345678",
		Role:         models.RolePassenger,
		PasswordHash: "$2a$hash",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	p.Name = "Asha P"
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Get(ctx, "asha@vit.edu")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Asha P" || !got.HasSignup() {
		t.Errorf("unexpected record %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	if err := store.Delete(ctx, "asha@vit.edu"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "asha@vit.edu"); !errors.Is(err, pendingstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Get_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pendingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := models.PendingRegistration{Email: "late@vit.edu", Name: "Late", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.Get(ctx, "late@vit.edu"); !errors.Is(err, pendingstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired record, got %v", err)
	}
}

func TestStore_MarkVerified(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pendingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()

	// No signup pending: a bare verified record is created.
	if err := store.MarkVerified(ctx, "bare@vit.edu", now, now.Add(time.Hour)); err != nil {
		t.Fatalf("MarkVerified failed: %v", err)
	}
	got, err := store.Get(ctx, "bare@vit.edu")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.VerifiedAt == nil || got.HasSignup() {
		t.Errorf("expected bare verified record, got %+v", got)
	}

	// Signup pending: the payload is kept.
	if err := store.Save(ctx, models.PendingRegistration{
		Email: "full@vit.edu", Name: "Full", PasswordHash: "h", ExpiresAt: now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.MarkVerified(ctx, "full@vit.edu", now, now.Add(time.Hour)); err != nil {
		t.Fatalf("MarkVerified failed: %v", err)
	}
	got, err = store.Get(ctx, "full@vit.edu")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.VerifiedAt == nil || !got.HasSignup() {
		t.Errorf("expected verified signup, got %+v", got)
	}
}
