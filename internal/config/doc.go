// Package config loads deckhand's configuration.
//
// # Resolution Order
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/deckhand/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. Apply DECKHAND_* environment overrides on top
//
// # TOML Format
//
//	api_url = "https://app.example.com"
//	state_backend = "file"        # file | sqlite | memory
//	state_path = "~/.local/state/deckhand/state.toml"
//	poll_interval = "60s"
//	log_level = "info"
//	log_format = "text"           # text | json
//	log_file = "~/.local/state/deckhand/deckhand.log"
//
// Every field is optional. Tilde expansion is performed on paths.
//
// # Environment
//
//   - DECKHAND_API_URL
//   - DECKHAND_STATE_BACKEND
//   - DECKHAND_STATE_PATH
//   - DECKHAND_LOG_LEVEL
//   - DECKHAND_LOG_FORMAT
//
// Missing config files are NOT an error. Malformed files, unknown backends
// and unparseable durations are.
package config
