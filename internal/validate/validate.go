// Package validate implements the deterministic per-field checks the
// dialogue runs before accepting a value. Each check either accepts
// with a normalized value or rejects with a reply-ready reason.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Result is the outcome of validating one input.
// Confirm marks accepted values unusual enough that the reply should
// ask the caller to confirm them while still advancing.
type Result struct {
	OK      bool
	Value   string
	Reason  string
	Confirm bool
}

// Reply texts for rejected inputs.
const (
	reasonNameTokens = "Thanks! Could you provide your full first and last name?"
	reasonNameSpell  = "I want to make sure I have this right. Could you spell your full name for me?"
	reasonExperience = "I need the number of years. For example, 5 years or 10 years. How many years would that be?"
	reasonDOBFormat  = "I need the complete date. Could you give me the month, day, and year?"
	reasonDOBUnder18 = "I'm sorry, you must be at least 18 to complete verification. Could you double-check your date of birth?"
	reasonEmail      = "That doesn't look like a valid email address. Could you say it again, like name@company.com?"
)

var (
	digitRun   = regexp.MustCompile(`\d+`)
	datePieces = regexp.MustCompile(`(\d{1,4})[\s/.\-,]+(\d{1,4})[\s/.\-,]+(\d{1,4})`)
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[a-z]{2,}$`)
)

// DefaultDirectoryPhrases returns the built-in phrases that signal the
// caller is asking to see the employer list rather than answering.
func DefaultDirectoryPhrases() []string {
	return []string{
		"company list",
		"list of companies",
		"list of company",
		"show me the list",
		"what companies",
	}
}

// Validator checks raw turn inputs for each collected field.
type Validator struct {
	phrases []string
	now     func() time.Time
}

// New builds a Validator. A nil phrase list falls back to
// DefaultDirectoryPhrases and a nil clock falls back to time.Now.
func New(directoryPhrases []string, now func() time.Time) *Validator {
	if directoryPhrases == nil {
		directoryPhrases = DefaultDirectoryPhrases()
	}
	if now == nil {
		now = time.Now
	}
	return &Validator{phrases: directoryPhrases, now: now}
}

// IsDirectoryRequest reports whether the input asks for the employer
// list. Matching is case-insensitive substring containment so phrasing
// like "can you show me the list?" still triggers.
func (v *Validator) IsDirectoryRequest(input string) bool {
	lowered := strings.ToLower(input)
	for _, p := range v.phrases {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

func (v *Validator) directoryDefer(question string) Result {
	return Result{Reason: "Let's finish your details first. " + question}
}

// Name accepts a full name: at least two whitespace-separated tokens
// with at least 70% alphabetic or whitespace characters.
func (v *Validator) Name(input string) Result {
	trimmed := strings.TrimSpace(input)
	if v.IsDirectoryRequest(trimmed) {
		return v.directoryDefer("What is your full name?")
	}
	if len(strings.Fields(trimmed)) < 2 {
		return Result{Reason: reasonNameTokens}
	}
	var letters, total int
	for _, r := range trimmed {
		total++
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			letters++
		}
	}
	if float64(letters) < 0.7*float64(total) {
		return Result{Reason: reasonNameSpell}
	}
	return Result{OK: true, Value: trimmed}
}

// Experience accepts years of experience: the first contiguous digit
// run in the input, rejected when absent or negative. Values over 50
// are accepted flagged for confirmation.
func (v *Validator) Experience(input string) Result {
	trimmed := strings.TrimSpace(input)
	if v.IsDirectoryRequest(trimmed) {
		return v.directoryDefer("How many years of experience do you have?")
	}
	loc := digitRun.FindStringIndex(trimmed)
	if loc == nil {
		return Result{Reason: reasonExperience}
	}
	if loc[0] > 0 && trimmed[loc[0]-1] == '-' {
		return Result{Reason: reasonExperience}
	}
	years, err := strconv.Atoi(trimmed[loc[0]:loc[1]])
	if err != nil {
		return Result{Reason: reasonExperience}
	}
	return Result{OK: true, Value: strconv.Itoa(years), Confirm: years > 50}
}

// DOB accepts a date of birth written as three numeric groups in any
// common separator style. Interpretations are tried in order
// day/month/year, month/day/year, year/month/day; the first that forms
// a real calendar date wins. The caller must be 18 to 80 years old;
// ages over 80 are accepted flagged for confirmation. The normalized
// value is YYYY-MM-DD.
func (v *Validator) DOB(input string) Result {
	trimmed := strings.TrimSpace(input)
	if v.IsDirectoryRequest(trimmed) {
		return v.directoryDefer("What is your date of birth?")
	}
	m := datePieces.FindStringSubmatch(trimmed)
	if m == nil {
		return Result{Reason: reasonDOBFormat}
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	c, _ := strconv.Atoi(m[3])

	birth, ok := firstCalendarDate([][3]int{
		{c, b, a}, // day month year
		{c, a, b}, // month day year
		{a, b, c}, // year month day
	})
	if !ok {
		return Result{Reason: reasonDOBFormat}
	}
	years := age(birth, v.now())
	if years < 18 {
		return Result{Reason: reasonDOBUnder18}
	}
	return Result{OK: true, Value: birth.Format("2006-01-02"), Confirm: years > 80}
}

// Email accepts a trimmed, lower-cased address of the shape
// local@domain.tld with a dotted domain and a TLD of 2+ letters.
func (v *Validator) Email(input string) Result {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if v.IsDirectoryRequest(trimmed) {
		return v.directoryDefer("What is your email address?")
	}
	if !emailShape.MatchString(trimmed) {
		return Result{Reason: reasonEmail}
	}
	return Result{OK: true, Value: trimmed}
}

// firstCalendarDate returns the first {year, month, day} triple that is
// a real calendar date with a four-digit year.
func firstCalendarDate(orders [][3]int) (time.Time, bool) {
	for _, o := range orders {
		year, month, day := o[0], o[1], o[2]
		if year < 1000 || month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Year() == year && int(t.Month()) == month && t.Day() == day {
			return t, true
		}
	}
	return time.Time{}, false
}

// age computes full elapsed years between birth and now.
func age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

// ConfirmPrefix phrases the soft confirmation for an unusual accepted
// value, mirroring how the agent's clarifications are worded.
func ConfirmPrefix(field, value string) string {
	switch field {
	case "years_of_experience":
		return fmt.Sprintf("Just to confirm, you said %s years of experience. ", value)
	case "date_of_birth":
		return fmt.Sprintf("Just to confirm, your date of birth is %s. ", value)
	default:
		return ""
	}
}
