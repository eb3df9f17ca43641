package config

import (
	"github.com/pkg/errors"

	"github.com/zabuzafr/lparsync/internal/model"
)

// CredentialKind selects the registry authentication path.
type CredentialKind uint8

const (
	// CredentialToken authenticates with a pre-issued API token.
	CredentialToken CredentialKind = iota
	// CredentialUserPassword exchanges a username and password for a
	// session.
	CredentialUserPassword
)

// Credential is the registry credential as an explicit tagged value, so the
// two authentication paths cannot be confused.
type Credential struct {
	Kind     CredentialKind
	Token    string
	User     string
	Password string
}

// Credential resolves the configured array credential. An API token wins
// over a username/password pair; configuring neither is an error.
func (o *ArrayOptions) Credential() (Credential, error) {
	if o.APIToken != "" {
		return Credential{Kind: CredentialToken, Token: o.APIToken}, nil
	}

	if o.User != "" && o.Password != "" {
		return Credential{
			Kind:     CredentialUserPassword,
			User:     o.User,
			Password: o.Password,
		}, nil
	}

	return Credential{}, errors.Wrap(model.ErrConfig,
		"array credential: set array.api_token or array.user and array.password")
}
