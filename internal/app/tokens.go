package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var ErrInvalidToken = errors.New("invalid session token")

// Session binds a client connection to one seat in one room.
type Session struct {
	RoomID   string
	PlayerID string
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue signs a token for the given seat.
func (s *TokenService) Issue(session Session) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", fmt.Errorf("token service is not configured")
	}
	if session.RoomID == "" || session.PlayerID == "" {
		return "", fmt.Errorf("room and player are required")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  session.PlayerID,
		"room": session.RoomID,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies the signature, issuer and expiry of a token.
func (s *TokenService) Parse(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Session{}, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return Session{}, fmt.Errorf("%w: wrong issuer", ErrInvalidToken)
	}

	room, _ := claims["room"].(string)
	player, _ := claims["sub"].(string)
	if room == "" || player == "" {
		return Session{}, fmt.Errorf("%w: missing room or subject", ErrInvalidToken)
	}
	return Session{RoomID: room, PlayerID: player}, nil
}
