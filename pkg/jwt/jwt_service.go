package jwt

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"Grocery-Receipt-Tracker/domain"
	"Grocery-Receipt-Tracker/internal/utils"
)

type (
	JWTService interface {
		GenerateToken(username string) string
		ValidateToken(token string) (*jwt.Token, error)
		GetUsernameByToken(token string) (string, error)
	}

	jwtClaim struct {
		Username string `json:"username"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func getSecretKey() string {
	return utils.GetConfig("JWT_SECRET")
}

func NewJWTService() JWTService {
	return &jwtService{
		secretKey: getSecretKey(),
		issuer:    "GROCERY-TRACKER",
	}
}

func NewJWTServiceWithSecret(secretKey string) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "GROCERY-TRACKER",
	}
}

func (j *jwtService) GenerateToken(username string) string {
	claims := jwtClaim{
		username,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		log.Println(err)
	}
	return signed
}

func (j *jwtService) parseToken(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateToken(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtClaim{}, j.parseToken)
}

func (j *jwtService) GetUsernameByToken(token string) (string, error) {
	parsed, err := j.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*jwtClaim)
	if !ok || claims.Username == "" {
		return "", domain.ErrTokenInvalid
	}

	return claims.Username, nil
}
