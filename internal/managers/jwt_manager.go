package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"campushub-server/internal/schemas"
	"campushub-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTMgr handles JWT generation, validation and the authentication middleware.
type JWTMgr interface {
	GenerateJWT(userId, email string, role schemas.Role, refresh bool) (string, error)
	ValidateJWT(tokenString string) (jwt.Claims, error)
	JWTMiddleware() gin.HandlerFunc
}

// JWTManager signs tokens with an Ed25519 key pair loaded from disk, generated
// on first start.
type JWTManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

const (
	tokenLifetime        = 24 * time.Hour
	refreshTokenLifetime = 7 * 24 * time.Hour
)

var errInvalidAuthHeader = errors.New("invalid authorization header")

// NewJWTManager creates a JWTManager from an existing key pair. Used by tests
// and by NewJWTManagerFromFile.
func NewJWTManager(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey) JWTMgr {
	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
	}
}

// NewJWTManagerFromFile loads the key pair from the given path, generating and
// persisting a fresh pair when the file does not exist yet.
func NewJWTManagerFromFile(path string) (JWTMgr, error) {
	privateKey, publicKey, err := loadKeyPair(path)
	if err != nil {
		privateKey, publicKey, err = generateKeyPair(path)
		if err != nil {
			return nil, err
		}
	}

	return NewJWTManager(privateKey, publicKey), nil
}

// GenerateJWT generates a signed token for the given user. Refresh tokens are
// marked with a refresh claim and live longer than access tokens.
func (jm *JWTManager) GenerateJWT(userId, email string, role schemas.Role, refresh bool) (string, error) {
	lifetime := tokenLifetime
	if refresh {
		lifetime = refreshTokenLifetime
	}

	claims := jwt.MapClaims{
		"iss":     "campushub.app",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(lifetime).Unix(),
		"sub":     userId,
		"email":   email,
		"role":    string(role),
		"refresh": refresh,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(jm.privateKey)
}

// ValidateJWT validates the given JWT and returns the claims if valid.
func (jm *JWTManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}

		return jm.publicKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return token.Claims, nil
}

// JWTMiddleware resolves the caller from the Authorization header and stores
// the claims in the request context. It fails closed: requests without a valid
// access token never reach the handler.
func (jm *JWTManager) JWTMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(ctx, errInvalidAuthHeader)
			return
		}

		claims, err := jm.ValidateJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthorized(ctx, err)
			return
		}

		mapClaims, ok := claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(ctx, errInvalidAuthHeader)
			return
		}

		// Refresh tokens are only good for the refresh endpoint.
		if refresh, ok := mapClaims["refresh"].(bool); ok && refresh {
			abortUnauthorized(ctx, errors.New("refresh token used as access token"))
			return
		}

		ctx.Set(utils.ClaimsKey.String(), mapClaims)
		ctx.Next()
	}
}

func abortUnauthorized(ctx *gin.Context, err error) {
	utils.LogMessageWithFieldsAndError(ctx, "debug", "Rejecting unauthenticated request", err)
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
}

// generateKeyPair generates a new key pair and saves it to a file.
func generateKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	if err = saveKeyPair(privateKey, publicKey, path); err != nil {
		return nil, nil, err
	}

	return privateKey, publicKey, nil
}

// saveKeyPair saves the key pair to the specified file.
func saveKeyPair(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, path string) error {
	keyPairBytes := append(privateKey, publicKey...)
	return os.WriteFile(path, keyPairBytes, 0600)
}

// loadKeyPair loads the key pair from the specified file.
func loadKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	keyPairBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	// The key pair is the concatenation of private and public keys
	if len(keyPairBytes) != ed25519.PrivateKeySize+ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("invalid key pair format")
	}

	return keyPairBytes[:ed25519.PrivateKeySize], keyPairBytes[ed25519.PrivateKeySize:], nil
}
