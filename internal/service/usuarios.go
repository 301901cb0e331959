// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/consejoregional/portal-go/internal/auth"
	"github.com/consejoregional/portal-go/internal/imaging"
	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/notifier"
	"github.com/consejoregional/portal-go/internal/store"
	"github.com/consejoregional/portal-go/internal/util"
)

// UserService manages back-office accounts: creation with invitation emails,
// login, enable/disable, password resets and avatars.
type UserService struct {
	queries   *store.Queries
	processor *imaging.Processor
	mailer    notifier.Mailer
	events    *EventService
}

// NewUserService creates a new UserService. mailer may be nil; invitation and
// reset emails are then skipped and the generated password is only returned to
// the caller.
func NewUserService(db *sql.DB, processor *imaging.Processor, mailer notifier.Mailer) *UserService {
	return &UserService{
		queries:   store.New(db),
		processor: processor,
		mailer:    mailer,
		events:    NewEventService(db),
	}
}

// Login authenticates an email/password pair. Disabled accounts are rejected
// after the password check so the error does not leak account state to
// guessers.
func (s *UserService) Login(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("fetching user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		_ = s.events.LogAuthEvent(ctx, model.EventLevelWarning,
			"failed login attempt for "+email, nil, nil)
		return model.User{}, ErrInvalidCredentials
	}
	if !user.Enabled {
		return model.User{}, ErrUserDisabled
	}

	if err := s.queries.UpdateUserLastLogin(ctx, user.ID, time.Now()); err != nil {
		slog.Warn("failed to stamp last login", "error", err, "user_id", user.ID)
	}
	_ = s.events.LogAuthEvent(ctx, model.EventLevelInfo, "user logged in", &user.ID, nil)
	return user, nil
}

// Get fetches a user by primary key.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.queries.GetUserByID(ctx, id)
}

// UserPage is one page of the admin user list.
type UserPage struct {
	Content       []model.User `json:"content"`
	Page          int64        `json:"page"`
	Size          int64        `json:"size"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int64        `json:"totalPages"`
}

// List returns one page of users ordered by name. page is 0-based.
func (s *UserService) List(ctx context.Context, page, size int64) (UserPage, error) {
	if size <= 0 {
		size = DefaultFolderPageSize
	}
	if size > MaxFolderPageSize {
		size = MaxFolderPageSize
	}
	if page < 0 {
		page = 0
	}

	users, err := s.queries.ListUsers(ctx, store.ListUsersParams{Limit: size, Offset: page * size})
	if err != nil {
		return UserPage{}, err
	}
	total, err := s.queries.CountUsers(ctx)
	if err != nil {
		return UserPage{}, err
	}
	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}
	return UserPage{
		Content:       users,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// SaveUserInput holds the editable fields of an account. Password is only
// consulted when SendInvitation is false; with SendInvitation a random
// password is generated and mailed instead.
type SaveUserInput struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Role           string
	Enabled        bool
	Password       string
	SendInvitation bool
}

func (s *UserService) validateUser(ctx context.Context, in SaveUserInput) error {
	if in.FirstName == "" || in.LastName == "" {
		return Invalid("firstName and lastName are required")
	}
	if in.Email == "" {
		return Invalid("email is required")
	}
	if in.Role != model.RoleAdmin && in.Role != model.RoleEditor {
		return Invalid("unknown role %q", in.Role)
	}
	n, err := s.queries.CountUsersByEmail(ctx, in.Email, in.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return Invalid("email %s is already in use", in.Email)
	}
	return nil
}

// Create registers a new account. Returns the user and, when no invitation
// email could be sent, the generated password for out-of-band delivery.
func (s *UserService) Create(ctx context.Context, in SaveUserInput, actorID *int64) (model.User, string, error) {
	if err := s.validateUser(ctx, in); err != nil {
		return model.User{}, "", err
	}

	password := in.Password
	if in.SendInvitation || password == "" {
		var err error
		password, err = auth.GeneratePassword(16)
		if err != nil {
			return model.User{}, "", err
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.User{}, "", fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		UUID:         uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         in.Role,
		Enabled:      in.Enabled,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, "", fmt.Errorf("creating user: %w", err)
	}
	_ = s.events.LogUserEvent(ctx, model.EventLevelInfo,
		"user created: "+user.Email, actorID, map[string]any{"new_user_id": user.ID})

	if in.SendInvitation && s.mailer != nil {
		body := fmt.Sprintf(
			"Hola %s,\n\nSe ha creado una cuenta para usted en el portal del Consejo Regional.\n\n"+
				"Usuario: %s\nContraseña temporal: %s\n\nCambie la contraseña al iniciar sesión.\n",
			user.FullName(), user.Email, password)
		if err := s.mailer.Send(ctx, user.Email, "Invitación al portal", body); err != nil {
			slog.Warn("failed to send invitation email", "error", err, "email", user.Email)
			return user, password, nil
		}
		return user, "", nil
	}
	if in.SendInvitation {
		// No relay configured; the caller must hand the password over.
		return user, password, nil
	}
	return user, "", nil
}

// Update edits the profile fields of an account.
func (s *UserService) Update(ctx context.Context, in SaveUserInput, actorID *int64) (model.User, error) {
	if in.ID == 0 {
		return model.User{}, Invalid("id is required")
	}
	if err := s.validateUser(ctx, in); err != nil {
		return model.User{}, err
	}

	err := s.queries.UpdateUser(ctx, store.UpdateUserParams{
		ID:        in.ID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Role:      in.Role,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return model.User{}, fmt.Errorf("updating user %d: %w", in.ID, err)
	}
	_ = s.events.LogUserEvent(ctx, model.EventLevelInfo,
		"user updated: "+in.Email, actorID, map[string]any{"user_id": in.ID})
	return s.queries.GetUserByID(ctx, in.ID)
}

// SetEnabled toggles an account independent of profile saves.
func (s *UserService) SetEnabled(ctx context.Context, id int64, enabled bool, actorID *int64) error {
	if err := s.queries.UpdateUserEnabled(ctx, id, enabled, time.Now()); err != nil {
		return fmt.Errorf("toggling user %d: %w", id, err)
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	_ = s.events.LogUserEvent(ctx, model.EventLevelInfo,
		"user "+state, actorID, map[string]any{"user_id": id})
	return nil
}

// ResetPassword assigns a fresh random password, mails it when a relay is
// configured, and returns it to the caller otherwise.
func (s *UserService) ResetPassword(ctx context.Context, id int64, actorID *int64) (string, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("fetching user %d: %w", id, err)
	}

	password, err := auth.GeneratePassword(16)
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	if err := s.queries.UpdateUserPassword(ctx, id, hash, time.Now()); err != nil {
		return "", fmt.Errorf("resetting password for user %d: %w", id, err)
	}
	_ = s.events.LogUserEvent(ctx, model.EventLevelWarning,
		"password reset for "+user.Email, actorID, map[string]any{"user_id": id})

	if s.mailer != nil {
		body := fmt.Sprintf(
			"Hola %s,\n\nSu contraseña ha sido restablecida.\n\nContraseña temporal: %s\n",
			user.FullName(), password)
		if err := s.mailer.Send(ctx, user.Email, "Contraseña restablecida", body); err == nil {
			return "", nil
		}
		slog.Warn("failed to send reset email", "email", user.Email)
	}
	return password, nil
}

// UpdateAvatar validates and stores a new avatar image for a user. The upload
// must be an image of at most imaging.MaxAvatarSize bytes.
func (s *UserService) UpdateAvatar(ctx context.Context, id int64, filename string, size int64, r io.Reader) (model.User, error) {
	if size > imaging.MaxAvatarSize {
		return model.User{}, Invalid("avatar exceeds the %d byte limit", int64(imaging.MaxAvatarSize))
	}

	data, err := io.ReadAll(io.LimitReader(r, imaging.MaxAvatarSize+1))
	if err != nil {
		return model.User{}, fmt.Errorf("reading avatar: %w", err)
	}
	if int64(len(data)) > imaging.MaxAvatarSize {
		return model.User{}, Invalid("avatar exceeds the %d byte limit", int64(imaging.MaxAvatarSize))
	}
	if !imaging.IsImageUpload(data) {
		return model.User{}, Invalid("avatar must be an image file, got %q", filename)
	}

	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("fetching user %d: %w", id, err)
	}

	result, err := s.processor.ProcessAvatar(bytes.NewReader(data), user.UUID)
	if err != nil {
		if IsValidation(err) {
			return model.User{}, err
		}
		return model.User{}, Invalid("processing avatar: %v", err)
	}

	avatar := util.NullStringFromValue(result.RelPath)
	if err := s.queries.UpdateUserAvatar(ctx, id, avatar, time.Now()); err != nil {
		return model.User{}, fmt.Errorf("saving avatar for user %d: %w", id, err)
	}
	return s.queries.GetUserByID(ctx, id)
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id int64, actorID *int64) error {
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching user %d: %w", id, err)
	}
	if err := s.queries.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	_ = s.events.LogUserEvent(ctx, model.EventLevelWarning,
		"user deleted: "+user.Email, actorID, map[string]any{"user_id": id})
	return nil
}
