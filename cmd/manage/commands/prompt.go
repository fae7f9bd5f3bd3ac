package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// prompter reads answers from the user. Passwords are read without echo
// when stdin is a terminal and as plain lines otherwise.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	text, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(text) > 0 {
			return strings.TrimSpace(text), nil
		}
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *prompter) password(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		text, err := p.line(prompt)
		return text, err
	}

	fmt.Fprint(p.out, prompt)
	pw, err := readPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// confirmedPassword asks twice and fails when the answers differ or are empty.
func (p *prompter) confirmedPassword() (string, error) {
	first, err := p.password("Password: ")
	if err != nil {
		return "", err
	}
	second, err := p.password("Password (again): ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errPasswordMismatch
	}
	if first == "" {
		return "", errBlankPassword
	}
	return first, nil
}

func (p *prompter) yes(prompt string) (bool, error) {
	answer, err := p.line(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

var (
	errPasswordMismatch = errors.New("your passwords didn't match")
	errBlankPassword    = errors.New("blank passwords aren't allowed")
)

// weakPasswordMessages returns the validator's messages when err is a weak
// password rejection.
func weakPasswordMessages(err error) ([]string, bool) {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || !errors.Is(appErr.Err, utils.ErrWeakPassword) {
		return nil, false
	}
	for _, v := range appErr.Details {
		if msgs, ok := v.([]string); ok {
			return msgs, true
		}
	}
	return []string{appErr.Message}, true
}
