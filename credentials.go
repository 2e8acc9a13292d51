package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/pthm-cable/evolvestats/config"
)

// credentials identify the player to the auth provider.
type credentials struct {
	Username string
	Password string
}

// prompter asks the user for missing values.
type prompter struct {
	in  *bufio.Reader
	out io.Writer

	// readPassword reads without echo; nil falls back to a plain line read.
	readPassword func() ([]byte, error)
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.readPassword = func() ([]byte, error) { return term.ReadPassword(fd) }
	}
	return p
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(label string) (string, error) {
	if p.readPassword == nil {
		return p.line(label)
	}
	fmt.Fprint(p.out, label)
	b, err := p.readPassword()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// resolveCredentials fills in the username and password from flags, the
// environment, then interactive prompts, in that order. The password is
// only resolved when needPassword is set.
func resolveCredentials(p *prompter, username, password string, needPassword bool) (credentials, error) {
	var c credentials

	c.Username = strings.TrimSpace(username)
	if c.Username == "" {
		u, err := p.line("Username: ")
		if err != nil {
			return c, err
		}
		c.Username = u
	}
	if c.Username == "" {
		return c, errors.New("username is required")
	}

	if !needPassword {
		return c, nil
	}

	c.Password = password
	if c.Password == "" {
		var env config.Env
		if err := config.ParseEnv(&env); err != nil {
			return c, err
		}
		c.Password = env.Password
	}
	if c.Password == "" {
		pw, err := p.secret("Password: ")
		if err != nil {
			return c, err
		}
		c.Password = pw
	}
	if c.Password == "" {
		return c, errors.New("password is required")
	}
	return c, nil
}
