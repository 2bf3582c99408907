// Package configs manages mucli's persisted configuration.
//
// # Config Store
//
// Key material and other records live in a single line-oriented text file
// (~/mucli_config.txt by default, $MUCLI_CONFIG overrides it). Each line is a
// record of the form
//
//	KEYWORD=field1=field2=...
//
// Keywords are not unique: the key registry, for example, writes one
// MUCLI_ENCRYPT line per key version. Fields are scalars or JSON lists and
// must not contain '='.
//
// Access goes through the Store interface. View reads the whole file into a
// Document; Update additionally rewrites the whole file when the callback
// changed the Document. There is no file locking: two processes updating the
// same file race and the last writer wins.
//
// # Preferences
//
// Optional user preferences are read from <UserConfigDir>/mucli/preferences.toml:
//
//	[encrypt]
//	default_layers = 1
//
//	[naming]
//	prefix = "enc."
//
//	[audit]
//	disabled = false
//
//	[store]
//	path = "~/mucli_config.txt"
//
// # Settings
//
// UserMucliSettings holds the resolved paths. It is initialised at startup
// and may be replaced by tests.
package configs
