// Package overlay manages the short-lived "sneaky" photo and message the
// admin can push over the dashboard. State is file-backed JSON under the
// upload directory so it survives restarts but needs no table.
package overlay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	photoFile       = "sneaky-photo.jpg"
	photoStateFile  = "sneaky-photo.json"
	messageFile     = "sneaky-message.json"
	defaultDuration = 15 * time.Minute
)

type PhotoStatus struct {
	Active     bool      `json:"active"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
	ExpiresAt  time.Time `json:"expiresAt,omitempty"`
}

type MessageStatus struct {
	Active    bool      `json:"active"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// ExpiryFor maps an admin-chosen duration token to a deadline: "endOfDay",
// "endOfWeek" (next Sunday night), or a number of minutes.
func (s *Store) ExpiryFor(duration string) time.Time {
	now := s.now()
	switch duration {
	case "endOfDay":
		return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	case "endOfWeek":
		daysUntilSunday := 7 - int(now.Weekday())
		end := now.AddDate(0, 0, daysUntilSunday)
		return time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, now.Location())
	default:
		minutes, err := strconv.Atoi(duration)
		if err != nil || minutes <= 0 {
			return now.Add(defaultDuration)
		}
		return now.Add(time.Duration(minutes) * time.Minute)
	}
}

// --- Photo ---

func (s *Store) PhotoPath() string {
	return filepath.Join(s.dir, photoFile)
}

// ActivatePhoto moves an uploaded file into place and arms the overlay.
func (s *Store) ActivatePhoto(uploadedPath, duration string) (PhotoStatus, error) {
	if err := os.Rename(uploadedPath, s.PhotoPath()); err != nil {
		return PhotoStatus{}, fmt.Errorf("store overlay photo: %w", err)
	}

	status := PhotoStatus{
		Active:     true,
		UploadedAt: s.now(),
		ExpiresAt:  s.ExpiryFor(duration),
	}
	if err := s.writeState(photoStateFile, status); err != nil {
		return PhotoStatus{}, err
	}
	return status, nil
}

// Photo reports the overlay photo state; expired or missing state reads as
// inactive.
func (s *Store) Photo() PhotoStatus {
	var status PhotoStatus
	if err := s.readState(photoStateFile, &status); err != nil {
		return PhotoStatus{}
	}
	if !status.Active || s.now().After(status.ExpiresAt) {
		return PhotoStatus{}
	}
	if _, err := os.Stat(s.PhotoPath()); err != nil {
		return PhotoStatus{}
	}
	return status
}

func (s *Store) DeactivatePhoto() error {
	var status PhotoStatus
	if err := s.readState(photoStateFile, &status); err != nil {
		return nil
	}
	status.Active = false
	return s.writeState(photoStateFile, status)
}

// --- Message ---

func (s *Store) ActivateMessage(message, duration string) (MessageStatus, error) {
	status := MessageStatus{
		Active:    true,
		Message:   message,
		CreatedAt: s.now(),
		ExpiresAt: s.ExpiryFor(duration),
	}
	if err := s.writeState(messageFile, status); err != nil {
		return MessageStatus{}, err
	}
	return status, nil
}

func (s *Store) Message() MessageStatus {
	var status MessageStatus
	if err := s.readState(messageFile, &status); err != nil {
		return MessageStatus{}
	}
	if !status.Active || s.now().After(status.ExpiresAt) {
		return MessageStatus{}
	}
	return status
}

func (s *Store) DeactivateMessage() error {
	var status MessageStatus
	if err := s.readState(messageFile, &status); err != nil {
		return nil
	}
	status.Active = false
	return s.writeState(messageFile, status)
}

func (s *Store) writeState(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create overlay dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode overlay state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write overlay state: %w", err)
	}
	return nil
}

func (s *Store) readState(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
