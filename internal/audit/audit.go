package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/yatsu/mucli/internal/configs"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Local username.
	Operation string `json:"op"`   // Operation name.

	// Optional fields depending on operation.
	Files        []string `json:"files,omitempty"`         // For encrypt/decrypt/update.
	Layers       int      `json:"layers,omitempty"`        // Layers added or removed per file.
	Version      *uint32  `json:"version,omitempty"`       // Key version involved.
	RemovedCount int      `json:"removed_count,omitempty"` // For purge.
}

// Log appends an entry to the audit log.
func Log(entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	logPath := LogPath()
	if logPath == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser returns an entry for op with the user field populated.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op}
	if configs.UserMucliSettings != nil {
		entry.User = configs.UserMucliSettings.Username
	}
	return entry
}

// VersionOf returns a pointer for Entry.Version.
func VersionOf(v uint32) *uint32 {
	return &v
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	if configs.UserMucliSettings == nil {
		return ""
	}
	return configs.UserMucliSettings.AuditLogPath
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// ParseTimestamp parses Entry.Timestamp, accepting plain RFC3339 as well.
func ParseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(TimestampFormat, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err
}
