package engines

import (
	"encoding/base64"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeBasic AuthType = "basic_auth"
)

type AuthConfig struct {
	Type     AuthType
	Username string
	Password string
}

// BasicCredentials returns the value of the Authorization header for HTTP
// Basic authentication.
func BasicCredentials(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// Headers builds the request headers for a webhook call. Basic auth with a
// missing username or password is sent unauthenticated.
func (a AuthConfig) Headers() http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	if a.Type != AuthTypeBasic {
		return headers
	}
	if a.Username == "" || a.Password == "" {
		log.Warn("basic authentication configured but credentials missing")
		return headers
	}
	headers.Set("Authorization", BasicCredentials(a.Username, a.Password))
	return headers
}
