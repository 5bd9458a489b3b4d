package session

import (
	"net/http"
)

const (
	// Default Flash Class
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"

	// Default Flash Msg
	AuthCheckedMsg = "Auth check complete!"
	AuthTimedOut   = "Auth check timed out!"
	DefaultErrMsg  = "Uh oh! We've run into an issue."
	DevResetMsg    = "Dev reset!"
	SignedInMsg    = "Signed in!"
	SignedOutMsg   = "Signed out!"
)

var ContactUsErr = DefaultErrMsg + " Please contact us at %s if the issue persists."

type FlashSessionable interface {
	Flashes(w http.ResponseWriter, r *http.Request) []Flash
	SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error
}

// A Flash is a notification rendered to the end user once,
// most often as a toast.
type Flash struct {
	Class string `json:"class"`
	Msg   string `json:"msg"`
}
