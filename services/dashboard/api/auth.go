package api

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	tokenHeader   = `{"alg":"HS256","typ":"JWT"}`
	tokenLifetime = 24 * time.Hour
	bearerPrefix  = "Bearer "
)

type tokenClaims struct {
	Subject string `json:"sub"`
	Expiry  int64  `json:"exp"`
}

// newTokenSecret derives the HS256 secret from the service key and a random salt, so tokens die with the process
func newTokenSecret(serviceKey string) ([]byte, error) {
	salt := make([]byte, 16)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(serviceKey))
	mac.Write(salt)

	return mac.Sum(nil), nil
}

func (s *server) sign(message string) []byte {
	mac := hmac.New(sha256.New, s.tokenSecret)
	mac.Write([]byte(message))

	return mac.Sum(nil)
}

func (s *server) issueToken(subject string) (string, error) {
	claims, err := json.Marshal(tokenClaims{
		Subject: subject,
		Expiry:  s.timeProvider().Add(tokenLifetime).Unix(),
	})
	if err != nil {
		return "", err
	}

	message := base64.RawURLEncoding.EncodeToString([]byte(tokenHeader)) + "." + base64.RawURLEncoding.EncodeToString(claims)
	signature := base64.RawURLEncoding.EncodeToString(s.sign(message))

	return message + "." + signature, nil
}

func (s *server) verifyToken(token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("invalid token")
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return fmt.Errorf("invalid token sign")
	}
	if !hmac.Equal(signature, s.sign(parts[0]+"."+parts[1])) {
		return fmt.Errorf("unauthorized")
	}

	var claims tokenClaims
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err == nil {
		_ = json.Unmarshal(payload, &claims)
	}
	if s.timeProvider().Unix() > claims.Expiry {
		return fmt.Errorf("token expired")
	}

	return nil
}

// authAPIKey guards the endpoints called by the diagnostic session collaborator
func (s *server) authAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.serviceKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// authJWT guards the UI endpoints
func (s *server) authJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		err := s.verifyToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func (s *server) handleLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	validUser := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	validPass := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.password)) == 1
	if !validUser || !validPass {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.issueToken(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
