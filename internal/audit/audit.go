// Package audit implements the append-only encrypted activity log. Each
// event is serialized to JSON, encrypted with the field cipher and written
// as one line; the file is unreadable without the key. Suspicious events
// (repeated failed logins) are additionally queued as alerts surfaced to
// administrators on their next login.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/urbanmobility/umob/internal/cryptox"
	"github.com/urbanmobility/umob/internal/logging"
)

// Event is one audit record.
type Event struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Username   string    `json:"username"`
	Action     string    `json:"action"`
	Details    string    `json:"details,omitempty"`
	Suspicious bool      `json:"suspicious"`
}

// corruptedPlaceholder replaces entries that cannot be decrypted or parsed.
// One damaged line must not hide the rest of the log.
const corruptedPlaceholder = "[corrupted log entry]"

// FileLog appends encrypted events to a single log file.
type FileLog struct {
	path   string
	cipher *cryptox.Cipher
	log    logging.Logger

	mu     sync.Mutex
	alerts []Event
}

func NewFileLog(path string, cipher *cryptox.Cipher, log logging.Logger) *FileLog {
	return &FileLog{path: path, cipher: cipher, log: log}
}

// Record encrypts and appends one event. Failures are logged operationally
// and otherwise swallowed: audit trouble must never break the calling
// operation.
func (f *FileLog) Record(ctx context.Context, username, action, details string, suspicious bool) {
	ev := Event{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		Username:   username,
		Action:     action,
		Details:    details,
		Suspicious: suspicious,
	}

	if err := f.append(ev); err != nil {
		f.log.Error(ctx, "failed to write audit entry", "error", err)
	}

	if suspicious {
		f.mu.Lock()
		f.alerts = append(f.alerts, ev)
		f.mu.Unlock()
	}
}

func (f *FileLog) append(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	token, err := f.cipher.Encrypt(string(data))
	if err != nil {
		return fmt.Errorf("failed to encrypt event: %w", err)
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(token + "\n"); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Read decrypts the whole log, oldest first. Corrupted lines come back as
// placeholder events instead of aborting the read. A missing file is an
// empty log, not an error.
func (f *FileLog) Read(ctx context.Context) ([]Event, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		events = append(events, f.decode(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	return events, nil
}

func (f *FileLog) decode(token string) Event {
	plaintext, err := f.cipher.Decrypt(token)
	if err != nil {
		return Event{Action: corruptedPlaceholder}
	}
	var ev Event
	if err := json.Unmarshal([]byte(plaintext), &ev); err != nil {
		return Event{Action: corruptedPlaceholder}
	}
	return ev
}

// UnreadAlerts drains the queue of suspicious events collected since the
// last call.
func (f *FileLog) UnreadAlerts() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	alerts := f.alerts
	f.alerts = nil
	return alerts
}
