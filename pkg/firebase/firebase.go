package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// ErrEmailAlreadyExists is returned by CreateAccount when the provider
// already holds an account for the email.
var ErrEmailAlreadyExists = errors.New("email already registered")

// ErrInvalidCredentials is returned by SignInWithPassword for every
// verification failure. The cause (unknown email, wrong password, disabled
// account) is deliberately not distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

// App holds the initialized Firebase app, auth client, and the Web API key
// used for delegated password verification
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
	webAPIKey   string
	httpClient  *http.Client
}

// SignInResult is the provider identity returned on successful verification
type SignInResult struct {
	UID   string `json:"localId"`
	Email string `json:"email"`
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath, webAPIKey string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Println("Firebase app and auth client initialized successfully!")
	return &App{
		FirebaseApp: firebaseApp,
		AuthClient:  authClient,
		webAPIKey:   webAPIKey,
		httpClient:  http.DefaultClient,
	}, nil
}

// CreateAccount creates an email/password account at the provider and
// returns its UID
func (a *App) CreateAccount(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := a.AuthClient.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", ErrEmailAlreadyExists
		}
		return "", err
	}
	return record.UID, nil
}

// VerifyIDToken verifies a provider-issued ID token
func (a *App) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return a.AuthClient.VerifyIDToken(ctx, idToken)
}

// SignInWithPassword delegates email/password verification to the provider's
// Identity Toolkit REST endpoint. The Admin SDK cannot check passwords, so
// this is the server-side equivalent of the web SDK's signInWithPassword.
func (a *App) SignInWithPassword(ctx context.Context, email, password string) (*SignInResult, error) {
	if a.webAPIKey == "" {
		return nil, fmt.Errorf("Firebase Web API key not configured")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s?key=%s", signInEndpoint, a.webAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The endpoint reports the exact cause (EMAIL_NOT_FOUND,
		// INVALID_PASSWORD, ...); collapse it before it reaches a caller.
		log.Printf("Firebase signInWithPassword failed with status %d", resp.StatusCode)
		return nil, ErrInvalidCredentials
	}

	var result SignInResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if result.UID == "" {
		return nil, ErrInvalidCredentials
	}
	return &result, nil
}
