package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claim keys shared by the issuer and the validating middleware.
const (
	ClaimUserID = "user_id"
	ClaimRole   = "role"
	ClaimName   = "name"
	ClaimID     = "jti"
	ClaimExpiry = "exp"
)

// IdentityKey is the request context key holding the *Identity.
const IdentityKey = "identity"

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID    uint64
	Role      string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	method jwt.SigningMethod
	now    func() time.Time
}

func NewIssuer(secret, issuer, algorithm string, ttl time.Duration) (*Issuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unsupported signing method %q", algorithm)
	}
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		method: method,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the user. The jti lets the token be revoked.
func (i *Issuer) Issue(userID uint64, role, name string) (Token, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	id := uuid.NewString()

	token := jwt.NewWithClaims(i.method, jwt.MapClaims{
		ClaimUserID: userID,
		ClaimRole:   role,
		ClaimName:   name,
		ClaimID:     id,
		ClaimExpiry: expiresAt.Unix(),
		"iat":       now.Unix(),
		"orig_iat":  now.Unix(),
		"iss":       i.issuer,
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ID: id, ExpiresAt: expiresAt}, nil
}

// IdentityFromClaims rebuilds the caller from decoded claims. JSON numbers
// arrive as float64.
func IdentityFromClaims(claims map[string]interface{}) (*Identity, bool) {
	rawID, ok := claims[ClaimUserID].(float64)
	if !ok || rawID <= 0 {
		return nil, false
	}
	id := &Identity{UserID: uint64(rawID)}
	id.Role, _ = claims[ClaimRole].(string)
	id.Name, _ = claims[ClaimName].(string)
	id.TokenID, _ = claims[ClaimID].(string)
	if exp, ok := claims[ClaimExpiry].(float64); ok {
		id.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return id, true
}
