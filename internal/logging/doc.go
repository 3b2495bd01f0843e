// Package logging provides a small leveled logger for the course player.
//
// Levels are DEBUG, INFO, WARN, ERROR and FATAL. The initial level comes
// from PLAYER_LOG_LEVEL or LOG_LEVEL (DEBUG=true forces debug) and can be
// changed at startup with SetLevel once the CLI flags are parsed.
package logging
