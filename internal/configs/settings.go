package configs

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/yatsu/mucli/internal/utils"
)

// ConfigPathEnv overrides the config file location when set.
const ConfigPathEnv = "MUCLI_CONFIG"

type UserSettings struct {
	ConfigFilePath  string
	PreferencesPath string
	AuditLogPath    string
	HomeDir         string
	Username        string
}

var UserMucliSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(homeDir, ".config")
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		username = "unknown"
	}

	UserMucliSettings = &UserSettings{
		ConfigFilePath:  filepath.Join(homeDir, "mucli_config.txt"),
		PreferencesPath: filepath.Join(configDir, "mucli", "preferences.toml"),
		AuditLogPath:    filepath.Join(dataDir, "mucli", "audit.jsonl"),
		HomeDir:         homeDir,
		Username:        username,
	}
}

// ConfigFilePath resolves the config file: $MUCLI_CONFIG, then the
// preferences store path, then the default under the home directory.
func ConfigFilePath(prefs *Preferences) string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	if prefs != nil && prefs.Store.Path != "" {
		return expandHome(prefs.Store.Path)
	}
	return UserMucliSettings.ConfigFilePath
}

// OpenStore returns the file store selected by ConfigFilePath.
func OpenStore(prefs *Preferences) *FileStore {
	return NewFileStore(ConfigFilePath(prefs))
}

func expandHome(p string) string {
	if p == "~" {
		return UserMucliSettings.HomeDir
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(UserMucliSettings.HomeDir, p[2:])
	}
	return p
}
