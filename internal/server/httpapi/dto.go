package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/nihongo/internal/server/models"
	"github.com/dmitrijs2005/nihongo/internal/server/services"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	APIKey   string `json:"apiKey"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User   models.Identity `json:"user"`
	APIKey string          `json:"apiKey"`
	Token  string          `json:"token"`
}

func newSessionResponse(s *services.Session) sessionResponse {
	return sessionResponse{User: s.Identity, APIKey: s.Secret, Token: s.Token}
}

// flexID accepts a JSON string or number, since browser clients send user
// ids either way.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number")
	}
	*f = flexID(n.String())
	return nil
}

type recordRequest struct {
	UserID        flexID `json:"user_id"`
	ModuleType    string `json:"module_type"`
	DurationSec   *int   `json:"duration_sec"`
	AccuracyScore *int   `json:"accuracy_score"`
}

type exportRequest struct {
	UserID flexID `json:"user_id"`
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
