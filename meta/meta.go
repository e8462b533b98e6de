// meta/meta.go
package meta

// APP_NAME prefixes environment overrides (TACTICS_GAMES, ...).
const APP_NAME = "tactics"

// CONFIG_NAME is the config file looked up in the config directory.
const CONFIG_NAME = "tactics.yaml"

// GAMES defines the number of games per batch.
const GAMES = 10

// MAX_TURNS defines the limit on player turns in a game.
const MAX_TURNS = 300

// SEED defines the seed of the first game.
const SEED = 1
