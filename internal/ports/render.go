package ports

import "io"

// LoginPageData carries everything the login page needs to run the
// client-side OAuth flow against the identity provider.
type LoginPageData struct {
	Title          string
	IdentityURL    string
	MicrosoftURL   string // falls back to IdentityURL when empty
	Providers      []string
	CookieEndpoint string
	RedirectURL    string
}

// NotAuthorizedPageData carries the data for the "logged in but not a
// member" page.
type NotAuthorizedPageData struct {
	Title              string
	Message            string
	Email              string
	RequestAccessEmail string
	LogoutEndpoint     string
}

// PageRenderer renders the two terminal pages of the auth gate. The built-in
// implementation uses embedded templates; hosts may supply their own template
// set instead.
type PageRenderer interface {
	LoginPage(w io.Writer, data LoginPageData) error
	NotAuthorizedPage(w io.Writer, data NotAuthorizedPageData) error
}
