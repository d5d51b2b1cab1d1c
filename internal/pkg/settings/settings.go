// Package settings holds the runtime settings an admin can change without a restart.
//
// Readers take one Snapshot and use it for the whole request; Reload swaps in a new
// snapshot atomically and never mutates one that is in use.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"cargo/internal/pkg/errs"

	"github.com/joho/godotenv"
)

const (
	KeyMaintenanceMode    = "MAINTENANCE_MODE"
	KeyMaintenanceMessage = "MAINTENANCE_MESSAGE"
	KeyAuditRecentLimit   = "AUDIT_RECENT_LIMIT"

	DefaultMaintenanceMessage = "The service is under maintenance. Please try again later."
	DefaultAuditRecentLimit   = 200
	MaxAuditRecentLimit       = 1000
)

type Snapshot struct {
	MaintenanceMode    bool
	MaintenanceMessage string
	AuditRecentLimit   int
}

func Defaults() Snapshot {
	return Snapshot{
		MaintenanceMessage: DefaultMaintenanceMessage,
		AuditRecentLimit:   DefaultAuditRecentLimit,
	}
}

// Parse builds a snapshot from key/value pairs. Missing keys keep their defaults.
func Parse(values map[string]string) (Snapshot, error) {
	s := Defaults()
	var parseErrs []error

	if raw, ok := values[KeyMaintenanceMode]; ok && strings.TrimSpace(raw) != "" {
		mode, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause(KeyMaintenanceMode, err))
		}
		s.MaintenanceMode = mode
	}
	if raw := strings.TrimSpace(values[KeyMaintenanceMessage]); raw != "" {
		s.MaintenanceMessage = raw
	}
	if raw, ok := values[KeyAuditRecentLimit]; ok && strings.TrimSpace(raw) != "" {
		limit, err := strconv.Atoi(strings.TrimSpace(raw))
		switch {
		case err != nil:
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause(KeyAuditRecentLimit, err))
		case limit < 1 || limit > MaxAuditRecentLimit:
			parseErrs = append(parseErrs, errs.NewValueIsOutOfRangeError(KeyAuditRecentLimit, limit, 1, MaxAuditRecentLimit))
		default:
			s.AuditRecentLimit = limit
		}
	}

	if err := errors.Join(parseErrs...); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Store publishes the current Snapshot. An empty path means the defaults are fixed.
type Store struct {
	path    string
	current atomic.Pointer[Snapshot]
}

func NewStore(path string) *Store {
	st := &Store{path: path}
	defaults := Defaults()
	st.current.Store(&defaults)
	return st
}

// Current returns the snapshot in effect. The returned value is a copy.
func (st *Store) Current() Snapshot {
	return *st.current.Load()
}

// Reload re-reads the settings file and swaps the snapshot. On any error the previous
// snapshot stays in effect.
func (st *Store) Reload() (Snapshot, error) {
	if st.path == "" {
		return st.Current(), nil
	}

	values, err := godotenv.Read(st.path)
	if err != nil {
		return st.Current(), fmt.Errorf("read settings file %s: %w", st.path, err)
	}
	next, err := Parse(values)
	if err != nil {
		return st.Current(), err
	}

	st.current.Store(&next)
	return next, nil
}
