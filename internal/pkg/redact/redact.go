// redact маскирует персональные данные и секреты перед записью в лог.
package redact

import "strings"

// Email оставляет первые две руны локальной части и домен целиком.
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return "***"
	}

	if r := []rune(local); len(r) > 2 {
		return string(r[:2]) + "***@" + domain
	}

	return "***@" + domain
}

// Username показывает только первую руну имени.
func Username(s string) string {
	r := []rune(s)
	if len(r) <= 1 {
		return "***"
	}

	return string(r[:1]) + "***"
}

// Token не раскрывает ничего, кроме того, что токен был.
func Token() string { return "[REDACTED_TOKEN]" }

// Password — заглушка для пароля.
func Password() string { return "[REDACTED_PASSWORD]" }
