package adapters

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"text/template"

	"golang.org/x/text/language"

	f "github.com/julianladisch/stripes-core/core"
)

// Problem is one finding of the translation tree linter.
type Problem struct {
	Module  string
	Locale  string
	Key     string
	Message string
}

func (p Problem) String() string {
	if p.Key == "" {
		return fmt.Sprintf("%s/%s: %s", p.Module, p.Locale, p.Message)
	}
	return fmt.Sprintf("%s/%s: %s: %s", p.Module, p.Locale, p.Key, p.Message)
}

// Lint checks a translations tree without loading it into a bundle:
// unparseable locale file names, duplicate keys, malformed interpolation
// templates, and keys that drifted from the base locale (missing or
// extra). The base locale is the reference key set for every module.
func Lint(fsys fs.FS, dir string, baseLocale string) ([]Problem, error) {
	if _, err := language.Parse(baseLocale); err != nil {
		return nil, fmt.Errorf("invalid base locale %q: %w", baseLocale, err)
	}

	files, err := NewFSBundleSource(fsys, dir).Load(context.Background())
	if err != nil {
		return nil, err
	}

	var problems []Problem
	// module -> locale -> key set
	keysByModule := map[string]map[string]map[string]bool{}

	for _, file := range files {
		if _, err := language.Parse(file.Locale); err != nil {
			problems = append(problems, Problem{
				Module:  file.Module,
				Locale:  file.Locale,
				Message: "invalid locale file name",
			})
			continue
		}
		problems = append(problems, lintFile(file, keysByModule)...)
	}

	problems = append(problems, lintDrift(keysByModule, baseLocale)...)
	return problems, nil
}

func lintFile(file f.LocaleFile, keysByModule map[string]map[string]map[string]bool) []Problem {
	var problems []Problem

	entries, err := parseLocaleFile(file)
	if err != nil {
		return []Problem{{Module: file.Module, Locale: file.Locale, Message: err.Error()}}
	}

	if keysByModule[file.Module] == nil {
		keysByModule[file.Module] = map[string]map[string]bool{}
	}
	keys := map[string]bool{}
	keysByModule[file.Module][file.Locale] = keys

	for _, entry := range entries {
		keys[entry.key] = true

		msg, err := messageFrom(entry.key, entry.value)
		if err != nil {
			problems = append(problems, Problem{
				Module:  file.Module,
				Locale:  file.Locale,
				Key:     entry.key,
				Message: err.Error(),
			})
			continue
		}
		for _, text := range []string{msg.Zero, msg.One, msg.Two, msg.Few, msg.Many, msg.Other} {
			if text == "" {
				continue
			}
			if _, err := template.New("lint").Parse(text); err != nil {
				problems = append(problems, Problem{
					Module:  file.Module,
					Locale:  file.Locale,
					Key:     entry.key,
					Message: fmt.Sprintf("malformed template: %v", err),
				})
				break
			}
		}
	}
	return problems
}

// lintDrift reports keys out of sync with the base locale.
func lintDrift(keysByModule map[string]map[string]map[string]bool, baseLocale string) []Problem {
	var problems []Problem

	modules := make([]string, 0, len(keysByModule))
	for module := range keysByModule {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	for _, module := range modules {
		locales := keysByModule[module]
		base, ok := locales[baseLocale]
		if !ok {
			problems = append(problems, Problem{
				Module:  module,
				Locale:  baseLocale,
				Message: "base locale file is missing",
			})
			continue
		}

		localeNames := make([]string, 0, len(locales))
		for locale := range locales {
			if locale != baseLocale {
				localeNames = append(localeNames, locale)
			}
		}
		sort.Strings(localeNames)

		for _, locale := range localeNames {
			keys := locales[locale]
			for _, key := range sortedKeys(base) {
				if !keys[key] {
					problems = append(problems, Problem{
						Module:  module,
						Locale:  locale,
						Key:     key,
						Message: "missing key (present in base locale)",
					})
				}
			}
			for _, key := range sortedKeys(keys) {
				if !base[key] {
					problems = append(problems, Problem{
						Module:  module,
						Locale:  locale,
						Key:     key,
						Message: "unknown key (absent from base locale)",
					})
				}
			}
		}
	}
	return problems
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
