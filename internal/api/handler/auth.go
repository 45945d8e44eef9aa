package handler

import (
	"net/http"
	"strings"
	"time"

	"eventchat/backend/internal/chaterr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "eventchat-service"

// identityKey is the gin context key holding the verified user id.
const identityKey = "userID"

// Identity is the verified subject of a connection or request.
type Identity struct {
	UserID      string
	DisplayName string
}

// TokenService issues and verifies the HS256 tokens carried by every
// connection. The signing secret comes from configuration; there is no
// built-in fallback key.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token for the given user.
func (t *TokenService) Issue(id Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":  id.UserID,
		"name": id.DisplayName,
		"exp":  time.Now().Add(72 * time.Hour).Unix(),
		"iss":  tokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token and extracts the identity.
func (t *TokenService) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, chaterr.Newf(chaterr.AuthenticationMissing, "unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, chaterr.Wrap(chaterr.AuthenticationMissing, "invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, chaterr.New(chaterr.AuthenticationMissing, "malformed claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, chaterr.New(chaterr.AuthenticationMissing, "token carries no subject")
	}
	name, _ := claims["name"].(string)
	return Identity{UserID: sub, DisplayName: name}, nil
}

// bearerToken pulls the token from the Authorization header, falling back
// to the token query parameter for websocket clients that cannot set
// headers.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// AuthRequired verifies the request's token and stores the user id in the
// gin context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token missing"})
			return
		}
		id, err := h.Tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token or expired"})
			return
		}
		c.Set(identityKey, id.UserID)
		c.Next()
	}
}

type tokenRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName" binding:"required"`
}

// IssueToken mints a token for a user, creating the user row on first
// contact. Development stand-in for the account service's issuance flow.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "displayName is required"})
		return
	}
	if req.UserID == "" {
		req.UserID = uuid.New().String()
	}

	user, err := h.Storage.EnsureUser(req.UserID, req.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token, err := h.Tokens.Issue(Identity{UserID: user.ID, DisplayName: user.DisplayName})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "userId": user.ID})
}
