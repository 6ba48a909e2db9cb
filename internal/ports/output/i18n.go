package output

// T renders user-facing text in a group's language. Unknown keys come back
// unchanged so a missing message never breaks a reply.
type T interface {
	T(locale, key string, data map[string]any) string
	// Languages lists the locales with a message bundle, default first.
	Languages() []string
}
