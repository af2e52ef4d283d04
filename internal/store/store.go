// Package store persists profiles and chat history in Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// MaxProfilesPerDevice caps buddy profiles per (email, device) pair.
const MaxProfilesPerDevice = 3

var (
	ErrNotFound      = errors.New("not found")
	ErrProfileExists = errors.New("profile already exists for this email, device, and buddy name")
	ErrProfileLimit  = fmt.Errorf("maximum of %d profiles allowed per device", MaxProfilesPerDevice)
)

type Store struct {
	DB *sql.DB
}

// NewWithDSN opens and pings a Postgres connection.
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{DB: db}, nil
}

// Profile is one buddy persona owned by an (email, device) pair.
type Profile struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	DeviceID         string    `json:"deviceId"`
	BuddyName        string    `json:"buddyName"`
	BuddyPersonality string    `json:"buddyPersonality"`
	BuddyRules       string    `json:"buddyRules,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ChatMessage is one line of buddy conversation.
type ChatMessage struct {
	ID            string    `json:"id"`
	ProfileID     int64     `json:"profileId"`
	Message       string    `json:"message"`
	IsUserMessage bool      `json:"isUserMessage"`
	CreatedAt     time.Time `json:"timestamp"`
}

// CreateProfile inserts a profile after enforcing the duplicate and
// per-device limits.
func (s *Store) CreateProfile(ctx context.Context, p Profile) (Profile, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE email=$1 AND device_id=$2 AND buddy_name=$3)`,
		p.Email, p.DeviceID, p.BuddyName).Scan(&exists)
	if err != nil {
		return Profile{}, fmt.Errorf("check existing profile: %w", err)
	}
	if exists {
		return Profile{}, ErrProfileExists
	}

	var count int
	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE email=$1 AND device_id=$2`,
		p.Email, p.DeviceID).Scan(&count)
	if err != nil {
		return Profile{}, fmt.Errorf("count device profiles: %w", err)
	}
	if count >= MaxProfilesPerDevice {
		return Profile{}, ErrProfileLimit
	}

	err = s.DB.QueryRowContext(ctx,
		`INSERT INTO profiles (email, device_id, buddy_name, buddy_personality, buddy_rules)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING id, created_at, updated_at`,
		p.Email, p.DeviceID, p.BuddyName, p.BuddyPersonality, p.BuddyRules).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return p, nil
}

// ProfilesByEmailAndDevice lists profiles for one device, oldest first.
func (s *Store) ProfilesByEmailAndDevice(ctx context.Context, email, deviceID string) ([]Profile, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, email, device_id, buddy_name, buddy_personality, COALESCE(buddy_rules,''), created_at, updated_at
		 FROM profiles WHERE email=$1 AND device_id=$2 ORDER BY created_at ASC`,
		email, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.DeviceID, &p.BuddyName, &p.BuddyPersonality, &p.BuddyRules, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ProfileByID fetches one profile or ErrNotFound.
func (s *Store) ProfileByID(ctx context.Context, id int64) (Profile, error) {
	var p Profile
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, email, device_id, buddy_name, buddy_personality, COALESCE(buddy_rules,''), created_at, updated_at
		 FROM profiles WHERE id=$1`, id).
		Scan(&p.ID, &p.Email, &p.DeviceID, &p.BuddyName, &p.BuddyPersonality, &p.BuddyRules, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// DeleteProfile removes a profile and, via cascade, its chat history.
func (s *Store) DeleteProfile(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM profiles WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveChatMessage appends one message to a profile's history.
func (s *Store) SaveChatMessage(ctx context.Context, m ChatMessage) (ChatMessage, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO chat_history (id, profile_id, message, is_user_message)
		 VALUES ($1,$2,$3,$4) RETURNING created_at`,
		m.ID, m.ProfileID, m.Message, m.IsUserMessage).
		Scan(&m.CreatedAt)
	if err != nil {
		return ChatMessage{}, fmt.Errorf("insert chat message: %w", err)
	}
	return m, nil
}

// ChatHistory lists a profile's messages oldest first.
func (s *Store) ChatHistory(ctx context.Context, profileID int64) ([]ChatMessage, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, profile_id, message, is_user_message, created_at
		 FROM chat_history WHERE profile_id=$1 ORDER BY created_at ASC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}
	defer rows.Close()

	var out []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.ProfileID, &m.Message, &m.IsUserMessage, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ClearChatHistory wipes a profile's conversation.
func (s *Store) ClearChatHistory(ctx context.Context, profileID int64) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM chat_history WHERE profile_id=$1`, profileID)
	if err != nil {
		return fmt.Errorf("clear chat history: %w", err)
	}
	return nil
}
