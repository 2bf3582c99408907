package keyring

import (
	"crypto/rand"
	"fmt"
	"sort"

	"github.com/yatsu/mucli/internal/configs"
	kerrors "github.com/yatsu/mucli/internal/errors"
)

const (
	// Keyword is the config keyword of registry lines.
	Keyword = "MUCLI_ENCRYPT"

	// KeySize is the length in bytes of every generated key.
	KeySize = 32
)

// Key is one registry entry.
type Key struct {
	Version uint32
	Secret  []byte
}

// GenerateKey returns length random bytes.
func GenerateKey(length int) ([]byte, error) {
	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}
	return key, nil
}

// Registry reads and writes keys through a config store.
type Registry struct {
	store configs.Store
}

func NewRegistry(store configs.Store) *Registry {
	return &Registry{store: store}
}

func parseKeyLine(raw string) (Key, bool, error) {
	if !configs.HasKeyword(raw, Keyword) {
		return Key{}, false, nil
	}
	line, err := configs.ParseLine(raw)
	if err != nil {
		return Key{}, false, err
	}
	if len(line.Fields) != 2 {
		return Key{}, false, fmt.Errorf("%w: %s line needs a version and a key", kerrors.ErrMalformedLine, Keyword)
	}
	field, err := line.Field(0)
	if err != nil {
		return Key{}, false, err
	}
	version, err := configs.ParseUint32(field)
	if err != nil {
		return Key{}, false, err
	}
	field, err = line.Field(1)
	if err != nil {
		return Key{}, false, err
	}
	secret, err := configs.ParseByteList(field)
	if err != nil {
		return Key{}, false, err
	}
	return Key{Version: version, Secret: secret}, true, nil
}

func encodeKey(k Key) (string, error) {
	return configs.NewLine(Keyword, fmt.Sprint(k.Version), configs.FormatByteList(k.Secret)).Encode()
}

func sortedKeys(doc *configs.Document) ([]Key, error) {
	keys, err := configs.FilterMapLines(doc, parseKeyLine)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Version < keys[j].Version })
	return keys, nil
}

// Keys returns every key sorted by ascending version.
func (r *Registry) Keys() ([]Key, error) {
	var keys []Key
	err := r.store.View(func(doc *configs.Document) error {
		var err error
		keys, err = sortedKeys(doc)
		return err
	})
	return keys, err
}

// Exists reports whether at least one key is registered.
func (r *Registry) Exists() (bool, error) {
	keys, err := r.Keys()
	if err != nil {
		return false, err
	}
	return len(keys) > 0, nil
}

// LatestVersion returns the highest registered version.
func (r *Registry) LatestVersion() (uint32, error) {
	keys, err := r.Keys()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, kerrors.ErrNoVersionFound
	}
	return keys[len(keys)-1].Version, nil
}

// NthKey returns the secret at sorted position index.
func (r *Registry) NthKey(index uint32) ([]byte, error) {
	keys, err := r.Keys()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, kerrors.ErrNoKeyFound
	}
	if uint64(index) >= uint64(len(keys)) {
		return nil, fmt.Errorf("%w: version %d (registry holds %d keys)", kerrors.ErrKeyNotExist, index, len(keys))
	}
	return keys[index].Secret, nil
}

// InitKey creates version 0 when the registry is empty. It reports whether a
// key was created.
func (r *Registry) InitKey() (bool, error) {
	created := false
	err := r.store.Update(func(doc *configs.Document) error {
		if doc.KeyExists(Keyword) {
			return nil
		}
		line, err := newKeyLine(0)
		if err != nil {
			return err
		}
		doc.SetLine(line)
		created = true
		return nil
	})
	return created, err
}

// RotateKey appends a key one version above the latest and returns the new
// version.
func (r *Registry) RotateKey() (uint32, error) {
	var version uint32
	err := r.store.Update(func(doc *configs.Document) error {
		keys, err := sortedKeys(doc)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return kerrors.ErrKeyUpdateFailed
		}
		version = keys[len(keys)-1].Version + 1
		line, err := newKeyLine(version)
		if err != nil {
			return err
		}
		doc.SetLine(line)
		return nil
	})
	return version, err
}

// PurgeKeys deletes every key and returns how many were removed.
func (r *Registry) PurgeKeys() (int, error) {
	removed := 0
	err := r.store.Update(func(doc *configs.Document) error {
		removed = doc.RemoveKey(Keyword)
		return nil
	})
	return removed, err
}

// Verify checks that versions run 0..n-1 without gaps or duplicates.
func (r *Registry) Verify() error {
	keys, err := r.Keys()
	if err != nil {
		return err
	}
	for i, k := range keys {
		if k.Version != uint32(i) {
			return fmt.Errorf("%w: expected version %d at position %d, found %d", kerrors.ErrRegistryGap, i, i, k.Version)
		}
		if len(k.Secret) != KeySize {
			return fmt.Errorf("%w: version %d has a %d byte key", kerrors.ErrMalformedLine, k.Version, len(k.Secret))
		}
	}
	return nil
}

func newKeyLine(version uint32) (string, error) {
	secret, err := GenerateKey(KeySize)
	if err != nil {
		return "", err
	}
	return encodeKey(Key{Version: version, Secret: secret})
}
