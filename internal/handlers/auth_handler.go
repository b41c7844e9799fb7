package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/yewo0on/HobbyFind/internal/models"
	"github.com/yewo0on/HobbyFind/internal/repositories"
	"github.com/yewo0on/HobbyFind/pkg/firebase"
	"gorm.io/gorm"
)

// CredentialProvider is the external identity service that owns accounts and
// verifies passwords. Implemented by pkg/firebase.App.
type CredentialProvider interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (*firebase.SignInResult, error)
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	provider       CredentialProvider
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, provider CredentialProvider, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		provider:       provider,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup delegates account creation to the credential provider and stores
// the local shadow user
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	uid, err := h.provider.CreateAccount(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, firebase.ErrEmailAlreadyExists) {
			return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
		}
		log.Printf("Signup failed for %s: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	user := &models.User{
		Email:       req.Email,
		FirebaseUID: uid,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		log.Printf("Failed to store user %s: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	return c.JSON(http.StatusCreated, echo.Map{"ok": true})
}

// SignIn delegates email/password verification to the credential provider
// and issues a local JWT. Every verification failure maps to the same
// message; the response never says whether the email exists.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.provider.SignInWithPassword(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Sign-in rejected for %s: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	user, err := h.findOrCreateUser(result.UID, result.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// FirebaseLogin verifies a provider-issued ID token and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.provider.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)

	user, err := h.findOrCreateUser(token.UID, email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	localJWT, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": localJWT})
}

// findOrCreateUser resolves the local shadow row for a provider identity,
// linking by UID first, then by email, creating the row when neither matches
func (h *AuthHandler) findOrCreateUser(firebaseUID, email string) (*models.User, error) {
	user, err := h.userRepository.GetUserByFirebaseUID(firebaseUID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err = h.userRepository.GetUserByEmail(email)
	if err == nil {
		// Account existed before the provider UID was known; link it now.
		user.FirebaseUID = firebaseUID
		if err := h.userRepository.UpdateUser(user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newUser := &models.User{
		Email:       email,
		FirebaseUID: firebaseUID,
	}
	if err := h.userRepository.CreateUser(newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)), // Token expires in 72 hours
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return "", err
	}
	return t, nil
}
