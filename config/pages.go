package config

// PagesConfig configures the login and access-denied pages rendered by the
// gate. All variables carry the PAGE_ prefix.
type PagesConfig struct {
	// LoginTitle is the heading and <title> of the login page.
	LoginTitle string `env:"LOGIN_TITLE" envDefault:"Login"`

	// Providers lists the OAuth provider buttons, in order.
	Providers []string `env:"PROVIDERS" envSeparator:";" envDefault:"github;google;microsoft"`

	// RequestAccessEmail enables a "request access" mailto link on the
	// access-denied page when set.
	RequestAccessEmail string `env:"REQUEST_ACCESS_EMAIL" envDefault:""`

	// RedirectURL is where the login page sends the browser after a
	// successful cookie exchange.
	RedirectURL string `env:"REDIRECT_URL" envDefault:"/"`
}
