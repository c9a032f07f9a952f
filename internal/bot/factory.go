package bot

import botinternal "tienlen/internal/bot/internal"

// NewBrain returns the standard scoring bot with the default tuning.
func NewBrain() Brain {
	return &StandardBot{
		Weights: DefaultTuning,
		Rules:   botinternal.DefaultRules,
	}
}
