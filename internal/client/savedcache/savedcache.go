// Package savedcache mirrors each user's saved skills to a local YAML file.
// The server list is authoritative: the mirror is replaced only with a list
// the server has just returned, never edited optimistically.
package savedcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

const lockRetryDelay = 50 * time.Millisecond

// Entry is one user's mirrored list.
type Entry struct {
	SavedSkills []string  `yaml:"savedSkills"`
	SyncedAt    time.Time `yaml:"syncedAt"`
}

type fileData struct {
	Users map[string]Entry `yaml:"users"`
}

// Store is a YAML file guarded by a sibling .lock file, so several CLI
// processes can share it.
type Store struct {
	path string
	lock *flock.Flock
	now  func() time.Time
}

// Open returns a Store for path. The file is created on first write.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache dir: %w", err)
	}
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// DefaultPath is ~/.cache/skillswap/saved.yaml or the OS equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine cache dir: %w", err)
	}
	return filepath.Join(dir, "skillswap", "saved.yaml"), nil
}

// Get returns the mirrored entry for userID.
func (s *Store) Get(ctx context.Context, userID string) (Entry, bool, error) {
	ok, err := s.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil || !ok {
		return Entry{}, false, fmt.Errorf("cannot lock saved-skills cache: %w", lockErr(err))
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := s.read()
	if err != nil {
		return Entry{}, false, err
	}
	e, found := data.Users[userID]
	return e, found, nil
}

// Replace overwrites the entry for userID with saved.
func (s *Store) Replace(ctx context.Context, userID string, saved []string) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !ok {
		return fmt.Errorf("cannot lock saved-skills cache: %w", lockErr(err))
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := s.read()
	if err != nil {
		return err
	}
	list := make([]string, len(saved))
	copy(list, saved)
	data.Users[userID] = Entry{SavedSkills: list, SyncedAt: s.now()}
	return s.write(data)
}

func (s *Store) read() (fileData, error) {
	data := fileData{Users: map[string]Entry{}}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return data, fmt.Errorf("cannot read %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("invalid YAML in %s: %w", s.path, err)
	}
	if data.Users == nil {
		data.Users = map[string]Entry{}
	}
	return data, nil
}

// write replaces the file via rename so readers never see a partial file.
func (s *Store) write(data fileData) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("cannot marshal cache: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("cannot write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("cannot replace %s: %w", s.path, err)
	}
	return nil
}

func lockErr(err error) error {
	if err == nil {
		return errors.New("lock not acquired")
	}
	return err
}

// ══════════════════════════════════════════════════════════════════════════════
// SYNC
// ══════════════════════════════════════════════════════════════════════════════

// Remote is the server side of the saved list.
type Remote interface {
	SavedSkills(ctx context.Context) ([]string, error)
	ToggleSavedSkill(ctx context.Context, skill string) ([]string, error)
}

// Syncer keeps a Store in step with the server for one user.
type Syncer struct {
	remote Remote
	store  *Store
	userID string
	log    *logger.Logger
}

// NewSyncer creates a Syncer. log may be nil.
func NewSyncer(remote Remote, store *Store, userID string, log *logger.Logger) *Syncer {
	if log == nil {
		log = logger.Nop()
	}
	return &Syncer{
		remote: remote,
		store:  store,
		userID: userID,
		log:    log.With(logger.Component("saved_cache"), logger.UserID(userID)),
	}
}

// Toggle flips skill on the server and mirrors the confirmed list.
// On server failure the mirror is left untouched.
func (s *Syncer) Toggle(ctx context.Context, skill string) ([]string, error) {
	saved, err := s.remote.ToggleSavedSkill(ctx, skill)
	if err != nil {
		return nil, err
	}
	if err := s.store.Replace(ctx, s.userID, saved); err != nil {
		// The server already holds the change; the mirror catches up on
		// the next Saved call.
		s.log.Warn("failed to mirror saved skills", logger.Err(err))
	}
	return saved, nil
}

// Saved returns the server list and refreshes the mirror. When the server
// is unreachable it falls back to the mirror and reports stale=true.
func (s *Syncer) Saved(ctx context.Context) (saved []string, stale bool, err error) {
	saved, err = s.remote.SavedSkills(ctx)
	if err == nil {
		if werr := s.store.Replace(ctx, s.userID, saved); werr != nil {
			s.log.Warn("failed to mirror saved skills", logger.Err(werr))
		}
		return saved, false, nil
	}
	if !shared.IsUpstream(err) {
		return nil, false, err
	}

	entry, found, cerr := s.store.Get(ctx, s.userID)
	if cerr != nil || !found {
		return nil, false, err
	}
	s.log.Info("serving saved skills from local cache", logger.Any("synced_at", entry.SyncedAt))
	return entry.SavedSkills, true, nil
}
