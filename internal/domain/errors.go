package domain

import "errors"

// Move rejections. None of them mutate the game; the mover may resubmit.
var (
	ErrNotPlaying                = errors.New("game is not in progress")
	ErrUnknownPlayer             = errors.New("player is not seated in this game")
	ErrWrongTurn                 = errors.New("not your turn")
	ErrPlayerFinished            = errors.New("player has already finished")
	ErrInvalidCardOwnership      = errors.New("cards are not in hand")
	ErrMustLeadWithThreeOfSpades = errors.New("first lead must include the 3 of spades")
	ErrCannotPassOnForcedLead    = errors.New("cannot pass while holding the 3 of spades on the opening lead")
	ErrIllegalComboShape         = errors.New("cards do not form a legal combination")
	ErrDoesNotBeatActiveTrick    = errors.New("play does not beat the active trick")
)

// Setup errors.
var (
	ErrSeatCount     = errors.New("game requires exactly four players")
	ErrDuplicateSeat = errors.New("player id seated twice")
	ErrDeckSize      = errors.New("deck must hold 52 unique cards")
)
