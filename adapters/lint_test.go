package adapters

import (
	"strings"
	"testing"

	"github.com/julianladisch/stripes-core/test"
)

// ------------------------------------------------------------------------------------------------------------------
// Translation tree linting
// ------------------------------------------------------------------------------------------------------------------

func lintProblem(problems []Problem, locale string, key string, fragment string) bool {
	for _, p := range problems {
		if p.Locale == locale && p.Key == key && (fragment == "" || strings.Contains(p.Message, fragment)) {
			return true
		}
	}
	return false
}

func TestLint(t *testing.T) {
	assert := test.NewAssertions(t)

	problems, err := Lint(testdataFS, "testdata/lint", "en")
	assert.Nil(err)
	assert.Equals(len(problems), 5)

	// A file whose name is not a locale.
	assert.True(lintProblem(problems, "12", "", "invalid locale file name"))
	// A message with an unterminated interpolation.
	assert.True(lintProblem(problems, "en", "broken", "malformed template"))
	// Keys drifted from the base locale.
	assert.True(lintProblem(problems, "fr", "broken", "missing key"))
	assert.True(lintProblem(problems, "fr", "itemCount", "missing key"))
	assert.True(lintProblem(problems, "fr", "extra", "unknown key"))
}

func TestLint_MalformedFile(t *testing.T) {
	assert := test.NewAssertions(t)

	problems, err := Lint(testdataFS, "testdata/malformed", "en")
	assert.Nil(err)
	assert.Equals(len(problems), 1)
	assert.Equals(problems[0].Locale, "en")
	assert.Contains(problems[0].Message, "malformed JSON")
}

func TestLint_InvalidBaseLocale(t *testing.T) {
	assert := test.NewAssertions(t)

	_, err := Lint(testdataFS, "testdata/lint", "not a locale")
	assert.NotNil(err)
}

func TestProblem_String(t *testing.T) {
	assert := test.NewAssertions(t)

	p := Problem{Module: "ui-checkin", Locale: "fr", Key: "extra", Message: "unknown key"}
	assert.Equals(p.String(), "ui-checkin/fr: extra: unknown key")

	p = Problem{Module: "ui-checkin", Locale: "12", Message: "invalid locale file name"}
	assert.Equals(p.String(), "ui-checkin/12: invalid locale file name")
}
