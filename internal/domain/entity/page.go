package entity

import "time"

type WaitState string

const (
	WaitPresent WaitState = "present"
	WaitAbsent  WaitState = "absent"
	WaitVisible WaitState = "visible"
)

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Cookie is the browser-independent form of a session cookie.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitempty"`
	HTTPOnly bool      `json:"httpOnly"`
	Secure   bool      `json:"secure"`
	SameSite string    `json:"sameSite,omitempty"`
}
