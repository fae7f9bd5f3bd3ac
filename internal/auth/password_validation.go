package auth

import (
	"bufio"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/models"
)

//go:embed common_passwords.txt
var commonPasswordsFile string

var attributeSplitter = regexp.MustCompile(`\W+`)

// PasswordValidator runs the password strength checks and collects every
// failure message rather than stopping at the first.
type PasswordValidator struct {
	MinLength     int
	MaxSimilarity float64
	common        map[string]struct{}
}

// NewPasswordValidator creates a validator with the default rules and the embedded common-password list.
func NewPasswordValidator() *PasswordValidator {
	return &PasswordValidator{
		MinLength:     constants.MinPasswordLength,
		MaxSimilarity: constants.MaxSimilarity,
		common:        loadCommonPasswords(commonPasswordsFile),
	}
}

func loadCommonPasswords(data string) map[string]struct{} {
	set := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line != "" && !strings.HasPrefix(line, "#") {
			set[line] = struct{}{}
		}
	}
	return set
}

// Validate returns the reasons password is unacceptable for user, or nil.
// user may be nil, which skips the similarity check.
func (v *PasswordValidator) Validate(password string, user *models.User) []string {
	var problems []string

	if n := len([]rune(password)); n < v.MinLength {
		problems = append(problems, fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", v.MinLength))
	}

	if user != nil {
		if attr := v.similarAttribute(password, user); attr != "" {
			problems = append(problems, fmt.Sprintf("The password is too similar to the %s.", attr))
		}
	}

	if _, ok := v.common[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, "This password is too common.")
	}

	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}

	return problems
}

// similarAttribute returns the name of the first user attribute the password
// resembles, or "".
func (v *PasswordValidator) similarAttribute(password string, user *models.User) string {
	attributes := []struct {
		name  string
		value string
	}{
		{"username", user.Username},
		{"email address", user.Email},
	}

	pw := strings.ToLower(password)
	for _, attr := range attributes {
		if attr.value == "" {
			continue
		}
		value := strings.ToLower(attr.value)
		if exceedsLengthRatio(pw, v.MaxSimilarity, value) {
			continue
		}

		parts := append(attributeSplitter.Split(value, -1), value)
		for _, part := range parts {
			if part == "" {
				continue
			}
			m := newSequenceMatcher(pw, part)
			if m.quickRatio() >= v.MaxSimilarity && m.ratio() >= v.MaxSimilarity {
				return attr.name
			}
		}
	}
	return ""
}

// exceedsLengthRatio skips attributes far shorter than the password, since
// they cannot reach the similarity threshold.
func exceedsLengthRatio(password string, maxSimilarity float64, value string) bool {
	pwLen := len([]rune(password))
	valueLen := len([]rune(value))
	lengthBound := maxSimilarity / 2 * float64(pwLen)
	return pwLen >= 10*valueLen && float64(valueLen) < lengthBound
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// sequenceMatcher computes the Ratcliff/Obershelp similarity of two strings:
// twice the number of matching runes divided by the total length, where
// matches are found by recursively taking the longest common block.
type sequenceMatcher struct {
	a, b []rune
}

func newSequenceMatcher(a, b string) *sequenceMatcher {
	return &sequenceMatcher{a: []rune(a), b: []rune(b)}
}

func (m *sequenceMatcher) ratio() float64 {
	total := len(m.a) + len(m.b)
	if total == 0 {
		return 1
	}
	return 2 * float64(m.matches(0, len(m.a), 0, len(m.b))) / float64(total)
}

// quickRatio is an upper bound on ratio computed from rune counts alone.
func (m *sequenceMatcher) quickRatio() float64 {
	total := len(m.a) + len(m.b)
	if total == 0 {
		return 1
	}
	avail := make(map[rune]int, len(m.b))
	for _, r := range m.b {
		avail[r]++
	}
	matches := 0
	for _, r := range m.a {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}

func (m *sequenceMatcher) matches(alo, ahi, blo, bhi int) int {
	i, j, size := m.longestMatch(alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size + m.matches(alo, i, blo, j) + m.matches(i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest common block of a[alo:ahi] and b[blo:bhi],
// preferring the earliest start in a, then in b.
func (m *sequenceMatcher) longestMatch(alo, ahi, blo, bhi int) (besti, bestj, bestSize int) {
	besti, bestj = alo, blo
	prev := make([]int, bhi-blo+1)
	for i := alo; i < ahi; i++ {
		cur := make([]int, bhi-blo+1)
		for j := blo; j < bhi; j++ {
			if m.a[i] != m.b[j] {
				continue
			}
			k := prev[j-blo] + 1
			cur[j-blo+1] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		prev = cur
	}
	return besti, bestj, bestSize
}
