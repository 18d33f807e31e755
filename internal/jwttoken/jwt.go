package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
)

// Claims are the actor claims carried by a libnet access token. The token is
// the hand-off from the external authentication collaborator: once verified,
// the rest of the system only ever sees a domain.Actor.
type Claims struct {
	Role      string `json:"role"`
	LibraryID string `json:"library_id,omitempty"`
	jwt.RegisteredClaims
}

// Service mints and validates HS256 actor tokens.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey string, issuer string) *Service {
	return &Service{signingKey: []byte(signingKey), issuer: issuer}
}

// GenerateActorToken mints a token for an authenticated staff actor.
func (s *Service) GenerateActorToken(actor domain.Actor, expiresIn time.Duration) (string, error) {
	claims := Claims{
		Role: actor.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	}
	if !actor.HomeLibraryID.IsNil() {
		claims.LibraryID = actor.HomeLibraryID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}

// ValidateToken verifies the signature and expiry and rebuilds the actor.
func (s *Service) ValidateToken(tokenString string) (domain.Actor, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	staffID, err := domain.ParseStaffID(claims.Subject)
	if err != nil {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token role")
	}

	actor := domain.Actor{ID: staffID, Role: role}
	if claims.LibraryID != "" {
		libID, err := domain.ParseLibraryID(claims.LibraryID)
		if err != nil {
			return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token library")
		}
		actor.HomeLibraryID = libID
	}
	return actor, nil
}
