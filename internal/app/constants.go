package app

import "time"

// BotThinkTime is the pause before a bot submits its move when the host
// does not configure one.
const BotThinkTime = 1200 * time.Millisecond

// DefaultHumanName labels the human seat when the client sends no name.
const DefaultHumanName = "You"
