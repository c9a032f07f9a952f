package app

import (
	"errors"

	"tienlen/internal/bot"
	"tienlen/internal/domain"
)

// Stable error codes sent to clients.
const (
	CodeNotPlaying     = "not_playing"
	CodeWrongTurn      = "wrong_turn"
	CodePlayerFinished = "player_finished"
	CodeInvalidCards   = "invalid_cards"
	CodeMustLeadThree  = "must_lead_three_of_spades"
	CodeCannotPass     = "cannot_pass"
	CodeIllegalCombo   = "illegal_combo"
	CodeDoesNotBeat    = "does_not_beat"
	CodeUnknownPlayer  = "unknown_player"
	CodeNotHuman       = "not_human"
	CodeGameInProgress = "game_in_progress"
	CodeRoomClosed     = "room_closed"
	CodeRoomNotFound   = "room_not_found"
	CodeTooManyRooms   = "too_many_rooms"
	CodeInvalidToken   = "invalid_token"
	CodeBadRequest     = "bad_request"
	CodeInternal       = "internal"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrNotPlaying, CodeNotPlaying},
	{domain.ErrWrongTurn, CodeWrongTurn},
	{domain.ErrPlayerFinished, CodePlayerFinished},
	{domain.ErrInvalidCardOwnership, CodeInvalidCards},
	{domain.ErrMustLeadWithThreeOfSpades, CodeMustLeadThree},
	{domain.ErrCannotPassOnForcedLead, CodeCannotPass},
	{domain.ErrIllegalComboShape, CodeIllegalCombo},
	{domain.ErrDoesNotBeatActiveTrick, CodeDoesNotBeat},
	{domain.ErrUnknownPlayer, CodeUnknownPlayer},
	{ErrNotHuman, CodeNotHuman},
	{ErrGameInProgress, CodeGameInProgress},
	{ErrRoomClosed, CodeRoomClosed},
	{ErrRoomNotFound, CodeRoomNotFound},
	{ErrTooManyRooms, CodeTooManyRooms},
	{ErrInvalidToken, CodeInvalidToken},
	{bot.ErrUnknownDifficulty, CodeBadRequest},
}

// ErrorCode maps a command error to its client code.
func ErrorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return CodeInternal
}
