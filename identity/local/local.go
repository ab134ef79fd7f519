// Package local is an identity provider backed by the service's own sqlite
// database. It exists for development and tests, where no hosted identity
// toolkit is configured.
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/ayomtuase/julieth/crypto"
	"github.com/ayomtuase/julieth/identity"
)

// MinPasswordLength mirrors the hosted provider policy.
const MinPasswordLength = 6

var _ identity.Provider = (*Provider)(nil)

type Provider struct {
	pool          *sqlitex.Pool
	secret        []byte
	tokenDuration time.Duration
}

type account struct {
	uid         string
	email       string
	password    string
	displayName string
	phoneNumber string
}

// New uses a pool owned by the caller. secret signs the access tokens.
func New(pool *sqlitex.Pool, secret []byte, tokenDuration time.Duration) (*Provider, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	if len(secret) < crypto.MinKeyLength {
		return nil, crypto.ErrJwtInvalidSecretLength
	}
	return &Provider{pool: pool, secret: secret, tokenDuration: tokenDuration}, nil
}

func (p *Provider) CreateAccount(ctx context.Context, email, password string) (*identity.Identity, error) {
	if len(password) < MinPasswordLength {
		return nil, identity.NewError(identity.Unknown, "Password should be at least 6 characters", nil)
	}
	hash, err := crypto.GenerateHash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, identity.NewError(identity.Unknown, "Password should be at most 72 characters", err)
		}
		return nil, identity.NewError(identity.Unknown, "", err)
	}

	conn, err := p.pool.Take(ctx)
	if err != nil {
		return nil, identity.Normalize(err)
	}
	defer p.pool.Put(conn)

	acc := account{uid: uuid.NewString(), email: strings.ToLower(email), password: hash}
	if err := insertAccount(conn, acc); err != nil {
		return nil, err
	}
	return p.identity(acc, identity.ProviderPassword)
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*identity.Identity, error) {
	conn, err := p.pool.Take(ctx)
	if err != nil {
		return nil, identity.Normalize(err)
	}
	defer p.pool.Put(conn)

	acc, err := accountByEmail(conn, strings.ToLower(email))
	if err != nil {
		return nil, identity.NewError(identity.Unknown, "", err)
	}

	var hash string
	if acc != nil {
		hash = acc.password
	}
	// federated only accounts have no password and fail here too
	if err := crypto.ComparePassword(password, hash); err != nil {
		return nil, identity.NewError(identity.InvalidCredentials, "", err)
	}
	return p.identity(*acc, identity.ProviderPassword)
}

// SignInFederated finds the account linked to the provider subject. Unknown
// subjects are linked to the account with the same (provider verified) email,
// or to a new account.
func (p *Provider) SignInFederated(ctx context.Context, cred identity.Credential) (id *identity.Identity, err error) {
	if cred.Subject == "" || cred.Email == "" {
		return nil, identity.NewError(identity.InvalidCredentials, "", errors.New("credential without subject or email"))
	}

	conn, err := p.pool.Take(ctx)
	if err != nil {
		return nil, identity.Normalize(err)
	}
	defer p.pool.Put(conn)

	acc, err := p.linkFederated(conn, cred)
	if err != nil {
		var ie *identity.Error
		if errors.As(err, &ie) {
			return nil, ie
		}
		return nil, identity.NewError(identity.Unknown, "", err)
	}
	return p.identity(*acc, cred.ProviderID)
}

func (p *Provider) linkFederated(conn *sqlite.Conn, cred identity.Credential) (acc *account, err error) {
	defer sqlitex.Save(conn)(&err)

	acc, err = accountByLink(conn, cred.ProviderID, cred.Subject)
	if err != nil || acc != nil {
		return acc, err
	}

	acc, err = accountByEmail(conn, strings.ToLower(cred.Email))
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc = &account{uid: uuid.NewString(), email: strings.ToLower(cred.Email), displayName: cred.Name}
		if err := insertAccount(conn, *acc); err != nil {
			return nil, err
		}
	} else if acc.displayName == "" && cred.Name != "" {
		acc.displayName = cred.Name
		err = sqlitex.Execute(conn, `UPDATE accounts SET display_name = ? WHERE uid = ?`,
			&sqlitex.ExecOptions{Args: []any{cred.Name, acc.uid}})
		if err != nil {
			return nil, err
		}
	}

	err = sqlitex.Execute(conn, `INSERT INTO account_links (provider, subject, uid) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{cred.ProviderID, cred.Subject, acc.uid}})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// SignOut records the time of the sign out for the account.
func (p *Provider) SignOut(ctx context.Context, id *identity.Identity) error {
	if id == nil {
		return nil
	}
	conn, err := p.pool.Take(ctx)
	if err != nil {
		return identity.Normalize(err)
	}
	defer p.pool.Put(conn)

	return sqlitex.Execute(conn, `UPDATE accounts SET signed_out = ? WHERE uid = ?`,
		&sqlitex.ExecOptions{Args: []any{time.Now().UTC().Format(time.RFC3339), id.UID}})
}

func (p *Provider) identity(acc account, providerID string) (*identity.Identity, error) {
	token, err := crypto.NewAccessToken(acc.uid, acc.email, providerID, p.secret, p.tokenDuration)
	if err != nil {
		return nil, identity.NewError(identity.Unknown, "", err)
	}
	return &identity.Identity{
		UID:         acc.uid,
		Email:       acc.email,
		DisplayName: acc.displayName,
		PhoneNumber: acc.phoneNumber,
		ProviderID:  providerID,
		AccessToken: token,
	}, nil
}

func insertAccount(conn *sqlite.Conn, acc account) error {
	err := sqlitex.Execute(conn,
		`INSERT INTO accounts (uid, email, password, display_name, phone_number) VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{acc.uid, acc.email, acc.password, acc.displayName, acc.phoneNumber}})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return identity.NewError(identity.AccountExists, "", err)
		}
		return identity.NewError(identity.Unknown, "", err)
	}
	return nil
}

func newAccountFromStmt(stmt *sqlite.Stmt) *account {
	return &account{
		uid:         stmt.GetText("uid"),
		email:       stmt.GetText("email"),
		password:    stmt.GetText("password"),
		displayName: stmt.GetText("display_name"),
		phoneNumber: stmt.GetText("phone_number"),
	}
}

// accountByEmail returns nil, nil when no account matches.
func accountByEmail(conn *sqlite.Conn, email string) (*account, error) {
	var acc *account
	err := sqlitex.Execute(conn,
		`SELECT uid, email, password, display_name, phone_number FROM accounts WHERE email = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			Args: []any{email},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				acc = newAccountFromStmt(stmt)
				return nil
			},
		})
	return acc, err
}

func accountByLink(conn *sqlite.Conn, provider, subject string) (*account, error) {
	var acc *account
	err := sqlitex.Execute(conn,
		`SELECT a.uid, a.email, a.password, a.display_name, a.phone_number
		FROM account_links l JOIN accounts a ON a.uid = l.uid
		WHERE l.provider = ? AND l.subject = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			Args: []any{provider, subject},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				acc = newAccountFromStmt(stmt)
				return nil
			},
		})
	return acc, err
}
