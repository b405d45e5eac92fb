package jwt_test

import (
	"context"
	"testing"
	"time"

	"hotel/config"
	"hotel/infras/jwt"
	otelMocks "hotel/infras/otel/mocks"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(appName string) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = appName
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg, otelMocks.NewOtel())
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newService("hotel")
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "user-1", "desk@hotel.test", "receptionist")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "receptionist", claims.Role)
	assert.Equal(t, claims.ID, claims.TokenID)

	_, err = svc.ValidateToken(ctx, pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	ctx := context.Background()

	pair, err := newService("other-app").GenerateTokenPair(ctx, "user-1", "a@b.c", "admin")
	require.NoError(t, err)

	_, err = newService("hotel").ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{
		UserID: "user-1",
		Type:   jwt.AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "hotel",
			IssuedAt:  gojwt.NewNumericDate(past),
			ExpiresAt: gojwt.NewNumericDate(past.Add(time.Minute)),
		},
	})

	signed, err := token.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = newService("hotel").ValidateToken(context.Background(), signed, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestValidateToken_WrongType(t *testing.T) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{
		UserID: "user-1",
		Type:   jwt.RefreshToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "hotel",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	signed, err := token.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = newService("hotel").ValidateToken(context.Background(), signed, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidClaim)
}

func TestRefreshTokens(t *testing.T) {
	svc := newService("hotel")
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "user-2", "chef@hotel.test", "staff")
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID)

	_, err = svc.RefreshTokens(ctx, pair.AccessToken)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "Bearer ", "Basic abc", "bearer abc"} {
		_, err = jwt.ExtractTokenFromHeader(header)
		assert.ErrorIs(t, err, jwt.ErrMissingBearer, header)
	}
}
