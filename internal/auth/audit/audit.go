// Package audit writes the human-readable login history file. Each session
// transition is one line; the file is only ever appended to.
package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// DefaultPath is where the history file lives unless configured otherwise.
const DefaultPath = "data/login_history.log"

// ErrWrite wraps any failure to append a line.
var ErrWrite = errors.New("audit: write failed")

// FileLog appends audit lines to a text file. The file is opened per write
// so external rotation (logrotate with create) just works.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog makes sure the parent directory exists. The file itself is
// created on first write.
func NewFileLog(path string) (*FileLog, error) {
	if path == "" {
		path = DefaultPath
	}
	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("audit: create log dir: %w", err)
	}
	return &FileLog{path: path}, nil
}

// Path returns the file being written.
func (l *FileLog) Path() string { return l.path }

// RecordLogin appends a [GoogleLogin] line for ev.
func (l *FileLog) RecordLogin(ctx context.Context, ev domain.LoginEvent) error {
	line := FormatLogin(ev.Email, ev.Name, ev.IP, ev.At.Unix())
	if err := l.append(line); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("login recorded", "event_id", ev.ID, "subject", ev.Subject)
	return nil
}

// RecordLogout appends a [GoogleLogout] line for ev. Subject carries the
// best identifier the client gave us.
func (l *FileLog) RecordLogout(ctx context.Context, ev domain.LoginEvent) error {
	line := FormatLogout(ev.Subject, ev.IP, ev.At.Unix())
	if err := l.append(line); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("logout recorded", "event_id", ev.ID, "subject", ev.Subject)
	return nil
}

func (l *FileLog) append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// FormatLogin renders
//
//	[GoogleLogin] User <email|unknown> logged in at <unix>[ (name: <name>)][ from <ip>]
//
// Control characters in any field are written escaped, so each call is
// exactly one line.
func FormatLogin(email, name, ip string, at int64) string {
	var b strings.Builder
	b.WriteString("[GoogleLogin] User ")
	b.WriteString(orUnknown(escape(email)))
	b.WriteString(" logged in at ")
	b.WriteString(strconv.FormatInt(at, 10))
	if name != "" {
		b.WriteString(" (name: " + escape(name) + ")")
	}
	if ip != "" {
		b.WriteString(" from " + escape(ip))
	}
	return b.String()
}

// FormatLogout renders
//
//	[GoogleLogout] User <identifier> logged out at <unix>[ from <ip>]
func FormatLogout(identifier, ip string, at int64) string {
	line := "[GoogleLogout] User " + orUnknown(escape(identifier)) + " logged out at " + strconv.FormatInt(at, 10)
	if ip != "" {
		line += " from " + escape(ip)
	}
	return line
}

// LogoutIdentifier picks what a logout is attributed to: email, then
// username, then "unknown".
func LogoutIdentifier(email, username string) string {
	switch {
	case email != "":
		return email
	case username != "":
		return username
	default:
		return "unknown"
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// escape rewrites control characters as Go escapes (\n, \x1b, \u0085).
func escape(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}

	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			q := strconv.QuoteRune(r)
			b.WriteString(q[1 : len(q)-1])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
