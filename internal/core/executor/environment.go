// SPDX-License-Identifier: Apache-2.0

package executor

import "strings"

// InjectCredential returns a copy of base with name=secret set, replacing any existing
// entry for name. base is never modified. Empty name or secret returns an unchanged copy.
func InjectCredential(base []string, name, secret string) []string {
	env := make([]string, 0, len(base)+1)
	if name == "" || secret == "" {
		return append(env, base...)
	}

	prefix := name + "="
	for _, kv := range base {
		if strings.HasPrefix(kv, prefix) {
			continue
		}
		env = append(env, kv)
	}
	return append(env, prefix+secret)
}

// LookupEnv returns the value of name in env, last entry wins
func LookupEnv(env []string, name string) (string, bool) {
	prefix := name + "="
	value, found := "", false
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			value, found = strings.TrimPrefix(kv, prefix), true
		}
	}
	return value, found
}
