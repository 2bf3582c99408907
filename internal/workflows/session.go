package workflows

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/yatsu/mucli/internal/audit"
	"github.com/yatsu/mucli/internal/configs"
	"github.com/yatsu/mucli/internal/crypt"
	"github.com/yatsu/mucli/internal/keyring"
	logger "github.com/yatsu/mucli/internal/logging"
)

// session bundles the state a workflow works against.
type session struct {
	prefs    *configs.Preferences
	store    *configs.FileStore
	registry *keyring.Registry
	engine   *crypt.Engine
	log      logger.Logger
}

func openSession(log logger.Logger) (*session, error) {
	prefs, err := configs.LoadPreferences()
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}

	if _, err := os.Stat(configs.UserMucliSettings.PreferencesPath); errors.Is(err, fs.ErrNotExist) {
		if err := configs.SavePreferences(prefs); err != nil {
			log.Warnf("Could not write default preferences: %v", err)
		}
	}

	store := configs.OpenStore(prefs)
	registry := keyring.NewRegistry(store)
	log.Debugf("Using config file %s", store.Path())

	if info, err := os.Stat(store.Path()); err == nil && info.Mode().Perm()&0077 != 0 {
		log.WarnfAlways("config %s is readable by other users, run chmod 600 on it", store.Path())
	}

	return &session{
		prefs:    prefs,
		store:    store,
		registry: registry,
		engine:   crypt.NewEngine(registry, nil, log),
		log:      log,
	}, nil
}

func (s *session) audit(entry audit.Entry) {
	if s.prefs.Audit.Disabled {
		return
	}
	audit.Log(entry)
}

// baseDir returns dir or the working directory.
func baseDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// FileOutcome describes one processed file.
type FileOutcome struct {
	Source string
	Output string
	Header crypt.Header
}

// ProgressFactory returns the progress sink for one file. It may be nil.
type ProgressFactory func(file string) crypt.Progress

func (f ProgressFactory) forFile(file string) crypt.Progress {
	if f == nil {
		return nil
	}
	return f(file)
}
