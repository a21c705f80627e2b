package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"paydesk/internal/shared/biztime"
)

// ContractCookieName is the recovery cookie set when a contract negotiation
// is redirected to the bank. It lets the callback identify the user when the
// session is gone, and lets an authenticated client recover a contract whose
// callback never completed.
const ContractCookieName = "pending-contract"

// ContractClaims bind a pending payman authority to the user who started
// the negotiation.
type ContractClaims struct {
	Authority string `json:"authority"`
	UserID    uint   `json:"user_id"`
	jwt.RegisteredClaims
}

// ContractCookieSigner issues and validates the signed pending-contract
// cookie. It signs with the same HS256 secret as the session tokens but a
// distinct claim shape, so one can never be replayed as the other.
type ContractCookieSigner struct {
	secret   []byte
	lifetime time.Duration
}

func NewContractCookieSigner(secret string, expHours int) *ContractCookieSigner {
	if expHours <= 0 {
		expHours = 1
	}
	return &ContractCookieSigner{
		secret:   []byte(secret),
		lifetime: time.Duration(expHours) * time.Hour,
	}
}

// Sign produces the cookie value for a pending authority.
func (s *ContractCookieSigner) Sign(userID uint, authority string) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("user id is required")
	}
	if authority == "" {
		return "", fmt.Errorf("authority is required")
	}

	now := biztime.NowUTC()
	claims := &ContractClaims{
		Authority: authority,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign contract cookie: %w", err)
	}
	return signed, nil
}

// Verify parses the cookie value and returns its claims.
func (s *ContractCookieSigner) Verify(value string) (*ContractClaims, error) {
	token, err := jwt.ParseWithClaims(value, &ContractClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract cookie: %w", err)
	}

	claims, ok := token.Claims.(*ContractClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid contract cookie")
	}
	if claims.UserID == 0 || claims.Authority == "" {
		return nil, fmt.Errorf("contract cookie is missing claims")
	}
	return claims, nil
}

// VerifyForAuthority parses the cookie and additionally checks it was
// issued for the given authority.
func (s *ContractCookieSigner) VerifyForAuthority(value, authority string) (*ContractClaims, error) {
	claims, err := s.Verify(value)
	if err != nil {
		return nil, err
	}
	if claims.Authority != authority {
		return nil, fmt.Errorf("contract cookie authority mismatch")
	}
	return claims, nil
}

// MaxAge returns the cookie max-age in seconds.
func (s *ContractCookieSigner) MaxAge() int {
	return int(s.lifetime / time.Second)
}
