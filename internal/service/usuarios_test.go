package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/consejoregional/portal-go/internal/imaging"
	"github.com/consejoregional/portal-go/internal/model"
)

func newTestUserService(t *testing.T) (*UserService, func()) {
	t.Helper()
	db, cleanup := testDB(t)
	svc := NewUserService(db, imaging.NewProcessor(t.TempDir()), nil)
	return svc, cleanup
}

func TestUserCreateAndLogin(t *testing.T) {
	svc, cleanup := newTestUserService(t)
	defer cleanup()
	ctx := context.Background()

	user, password, err := svc.Create(ctx, SaveUserInput{
		FirstName: "María",
		LastName:  "Flores",
		Email:     "maria@example.com",
		Role:      model.RoleEditor,
		Enabled:   true,
		Password:  "s3cret-password",
	}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if password != "" {
		t.Errorf("explicit password flow returned generated password %q", password)
	}
	if user.UUID == "" {
		t.Error("user UUID should be assigned")
	}

	logged, err := svc.Login(ctx, "maria@example.com", "s3cret-password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("Login returned user %d, want %d", logged.ID, user.ID)
	}
	if !logged.LastLoginAt.Valid {
		// Stamp happens after the fetch; re-read to check.
		again, err := svc.Get(ctx, user.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !again.LastLoginAt.Valid {
			t.Error("LastLoginAt not stamped after login")
		}
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, cleanup := newTestUserService(t)
	defer cleanup()
	ctx := context.Background()

	if _, _, err := svc.Create(ctx, SaveUserInput{
		FirstName: "Jorge", LastName: "Paz", Email: "jorge@example.com",
		Role: model.RoleAdmin, Enabled: true, Password: "correct-password",
	}, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Login(ctx, "jorge@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_DisabledUser(t *testing.T) {
	svc, cleanup := newTestUserService(t)
	defer cleanup()
	ctx := context.Background()

	user, _, err := svc.Create(ctx, SaveUserInput{
		FirstName: "Elsa", LastName: "Ríos", Email: "elsa@example.com",
		Role: model.RoleEditor, Enabled: true, Password: "elsa-password",
	}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.SetEnabled(ctx, user.ID, false, nil); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}

	if _, err := svc.Login(ctx, "elsa@example.com", "elsa-password"); !errors.Is(err, ErrUserDisabled) {
		t.Errorf("disabled login: got %v, want ErrUserDisabled", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, cleanup := newTestUserService(t)
	defer cleanup()
	ctx := context.Background()

	in := SaveUserInput{
		FirstName: "Uno", LastName: "Dos", Email: "dup@example.com",
		Role: model.RoleEditor, Enabled: true, Password: "password-one",
	}
	if _, _, err := svc.Create(ctx, in, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.Create(ctx, in, nil); !IsValidation(err) {
		t.Errorf("duplicate email: got %v, want validation error", err)
	}
}

func TestCreate_InvitationGeneratesPassword(t *testing.T) {
	svc, cleanup := newTestUserService(t)
	defer cleanup()
	ctx := context.Background()

	// No mailer configured: the generated password comes back to the caller.
	user, password, err := svc.Create(ctx, SaveUserInput{
		FirstName: "Inv", LastName: "Itada", Email: "invitada@example.com",
		Role: model.RoleEditor, Enabled: true, SendInvitation: true,
	}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if password == "" {
		t.Fatal("invitation without mailer must return the generated password")
	}
	if _, err := svc.Login(ctx, user.Email, password); err != nil {
		t.Errorf("login with generated password: %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	svc, cleanup := newTestUserService(t)
	defer cleanup()
	ctx := context.Background()

	user, _, err := svc.Create(ctx, SaveUserInput{
		FirstName: "Re", LastName: "Set", Email: "reset@example.com",
		Role: model.RoleEditor, Enabled: true, Password: "old-password",
	}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newPassword, err := svc.ResetPassword(ctx, user.ID, nil)
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if newPassword == "" {
		t.Fatal("reset without mailer must return the new password")
	}

	if _, err := svc.Login(ctx, user.Email, "old-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password still accepted after reset")
	}
	if _, err := svc.Login(ctx, user.Email, newPassword); err != nil {
		t.Errorf("login with reset password: %v", err)
	}
}

func TestUpdateAvatar_RejectsNonImage(t *testing.T) {
	svc, cleanup := newTestUserService(t)
	defer cleanup()
	ctx := context.Background()

	user, _, err := svc.Create(ctx, SaveUserInput{
		FirstName: "Ava", LastName: "Tar", Email: "ava@example.com",
		Role: model.RoleEditor, Enabled: true, Password: "ava-password",
	}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	payload := []byte("%PDF-1.4 definitely not an image")
	_, err = svc.UpdateAvatar(ctx, user.ID, "cv.pdf", int64(len(payload)), bytes.NewReader(payload))
	if !IsValidation(err) {
		t.Errorf("non-image avatar: got %v, want validation error", err)
	}
}

func TestUpdateAvatar_RejectsOversize(t *testing.T) {
	svc, cleanup := newTestUserService(t)
	defer cleanup()

	_, err := svc.UpdateAvatar(context.Background(), 1, "big.png",
		imaging.MaxAvatarSize+1, bytes.NewReader(nil))
	if !IsValidation(err) {
		t.Errorf("oversize avatar: got %v, want validation error", err)
	}
}
