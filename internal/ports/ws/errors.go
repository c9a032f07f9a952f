package ws

import (
	"errors"
	"net/http"

	"tienlen/internal/app"
)

var errBadRequest = errors.New("bad request")

var httpStatus = map[string]int{
	app.CodeNotPlaying:     http.StatusConflict,
	app.CodeWrongTurn:      http.StatusConflict,
	app.CodePlayerFinished: http.StatusConflict,
	app.CodeGameInProgress: http.StatusConflict,
	app.CodeInvalidCards:   http.StatusBadRequest,
	app.CodeMustLeadThree:  http.StatusBadRequest,
	app.CodeCannotPass:     http.StatusBadRequest,
	app.CodeIllegalCombo:   http.StatusBadRequest,
	app.CodeDoesNotBeat:    http.StatusBadRequest,
	app.CodeBadRequest:     http.StatusBadRequest,
	app.CodeUnknownPlayer:  http.StatusForbidden,
	app.CodeNotHuman:       http.StatusForbidden,
	app.CodeRoomClosed:     http.StatusGone,
	app.CodeRoomNotFound:   http.StatusNotFound,
	app.CodeTooManyRooms:   http.StatusServiceUnavailable,
	app.CodeInvalidToken:   http.StatusUnauthorized,
}

// classify maps an error to a client code and HTTP status.
func classify(err error) (string, int) {
	code := app.CodeBadRequest
	if !errors.Is(err, errBadRequest) {
		code = app.ErrorCode(err)
	}
	status, ok := httpStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return code, status
}

func errorMessage(err error) OutgoingMessage {
	code, _ := classify(err)
	return OutgoingMessage{Event: EventError, Data: ErrorPayload{Code: code, Message: err.Error()}}
}
