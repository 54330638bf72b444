package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
)

// Flash categories, used as CSS classes.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
)

const flashCookieName = "balance_flash"

// maxFlashes bounds the queue so the cookie stays small.
const maxFlashes = 10

// Flash is a one-time notice shown on the next rendered page.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// Flasher stores flash notices in a signed cookie.
type Flasher struct {
	codec *securecookie.SecureCookie
}

// NewFlasher returns a Flasher signing cookies with hashKey.
// PRE: hashKey is 32 or 64 bytes
func NewFlasher(hashKey []byte) *Flasher {
	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(300)
	return &Flasher{codec: codec}
}

// Add appends a notice to the flash cookie, keeping notices already queued on r.
func (f *Flasher) Add(w http.ResponseWriter, r *http.Request, category, message string) {
	flashes := append(f.read(r), Flash{Category: category, Message: message})
	if len(flashes) > maxFlashes {
		flashes = flashes[len(flashes)-maxFlashes:]
	}
	encoded, err := f.codec.Encode(flashCookieName, flashes)
	if err != nil {
		slog.Error("flash_encode_failed", "error", err)
		return
	}
	setCookie(w, flashCookieName, encoded, 0, http.SameSiteLaxMode)
}

// Pop returns the queued notices and clears the cookie.
// POST: A tampered or expired cookie yields no notices
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := f.read(r)
	if _, err := r.Cookie(flashCookieName); err == nil {
		setCookie(w, flashCookieName, "", -1, http.SameSiteLaxMode)
	}
	return flashes
}

func (f *Flasher) read(r *http.Request) []Flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	var flashes []Flash
	if err := f.codec.Decode(flashCookieName, c.Value, &flashes); err != nil {
		slog.Warn("flash_decode_failed", "error", err)
		return nil
	}
	return flashes
}
