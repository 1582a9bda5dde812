package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Header names used by the message endpoint.
const (
	SignatureHeader = "X-Bridge-Signature-256"
	TokenHeader     = "X-Bridge-Token"
)

// maxBodyBytes caps the request body; chat messages are small.
const maxBodyBytes = 1 << 20

// Message is a chat message delivered by the hosting environment. Any text is
// accepted, including an empty one.
type Message struct {
	Message string `json:"message"`
	Source  string `json:"source,omitempty" validate:"omitempty,max=128"`
}

// payload is the wire form of Message; a nil Message means the key was absent.
type payload struct {
	Message *string `json:"message"`
	Source  string  `json:"source"`
}

// Response is returned to the caller for every accepted message.
type Response struct {
	Outcome string `json:"outcome"`
	Result  string `json:"result"`
	ID      string `json:"id,omitempty"`
	File    string `json:"file,omitempty"`
}

// MessageHandlerFunc is called when a valid, authenticated message is received.
type MessageHandlerFunc func(ctx context.Context, msg *Message) (*Response, error)

// Handler handles message requests.
type Handler struct {
	secret   string
	token    string
	handler  MessageHandlerFunc
	validate *validator.Validate
}

// NewHandler creates a new message handler. When secret is set, requests must
// carry an HMAC-SHA256 signature of the body; otherwise, when token is set,
// requests must carry the token. With neither, requests are not authenticated.
func NewHandler(secret, token string, handler MessageHandlerFunc) *Handler {
	return &Handler{
		secret:   secret,
		token:    token,
		handler:  handler,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if status, msg := h.authenticate(r, body); status != http.StatusOK {
		http.Error(w, msg, status)
		return
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		http.Error(w, "failed to parse payload", http.StatusBadRequest)
		return
	}
	if p.Message == nil {
		http.Error(w, "invalid payload: message is missing", http.StatusBadRequest)
		return
	}

	msg := Message{Message: *p.Message, Source: p.Source}
	if err := h.validate.Struct(&msg); err != nil {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.handler(r.Context(), &msg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) authenticate(r *http.Request, body []byte) (int, string) {
	switch {
	case h.secret != "":
		signature := r.Header.Get(SignatureHeader)
		if signature == "" {
			return http.StatusUnauthorized, "missing signature"
		}
		if !h.verifySignature(body, signature) {
			return http.StatusUnauthorized, "invalid signature"
		}
	case h.token != "":
		token := r.Header.Get(TokenHeader)
		if token == "" {
			return http.StatusUnauthorized, "missing token"
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
			return http.StatusUnauthorized, "invalid token"
		}
	}
	return http.StatusOK, ""
}

// verifySignature checks a "sha256=<hex>" HMAC of the payload.
func (h *Handler) verifySignature(payload []byte, signature string) bool {
	if !strings.HasPrefix(signature, "sha256=") {
		return false
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	if err != nil {
		return false
	}

	return hmac.Equal(sig, Sign(h.secret, payload))
}

// Sign computes the HMAC-SHA256 of payload with secret.
func Sign(secret string, payload []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignatureValue formats a signature header value for payload.
func SignatureValue(secret string, payload []byte) string {
	return "sha256=" + hex.EncodeToString(Sign(secret, payload))
}
