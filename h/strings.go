package h

import (
	"strings"

	"github.com/thoas/go-funk"
)

func IsEmpty(s any) bool {
	return funk.IsEmpty(s)
}

func IsNotEmpty(s any) bool {
	return !funk.IsEmpty(s)
}

// SplitLocales splits a comma separated locale list, trimming whitespace and
// dropping duplicates while preserving order.
func SplitLocales(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return funk.UniqString(out)
}

// NamespaceKey prefixes key with the owning module name, the lookup form of
// every translation key (ui-users + search -> ui-users.search).
func NamespaceKey(module string, key string) string {
	if module == "" {
		return key
	}
	return module + "." + key
}

// SplitNamespacedKey splits module.key back into its parts. A key with no
// dot belongs to no module.
func SplitNamespacedKey(key string) (string, string) {
	idx := strings.Index(key, ".")
	if idx <= 0 {
		return "", key
	}
	return key[:idx], key[idx+1:]
}
