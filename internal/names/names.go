// Пакет names — форматирование логина firstname.lastname в отображаемое имя.
package names

import "strings"

// specialPrefixes — префиксы фамилий, после которых остаток токена
// капитализируется как отдельное слово: macdonald → MacDonald.
var specialPrefixes = []string{"mc", "mac", "o'", "de", "van", "von", "la", "le"}

// Format преобразует логин вида firstname.lastname в отображаемое имя.
// Дополнительные точки в фамилии объединяются пробелами; части через дефис
// форматируются независимо; регистр входа нормализуется (JOHN.SMITH →
// John Smith). Пустой вход даёт пустой результат.
func Format(user string) string {
	if user == "" {
		return ""
	}

	parts := strings.Split(user, ".")
	if len(parts) >= 2 {
		first := formatPart(parts[0])
		last := formatPart(strings.Join(parts[1:], " "))
		return first + " " + last
	}
	return formatPart(user)
}

// formatPart форматирует один токен имени.
func formatPart(part string) string {
	if part == "" {
		return ""
	}

	if strings.Contains(part, "-") {
		pieces := strings.Split(part, "-")
		for i, p := range pieces {
			pieces[i] = formatPart(p)
		}
		return strings.Join(pieces, "-")
	}

	lower := strings.ToLower(part)
	for _, prefix := range specialPrefixes {
		if strings.HasPrefix(lower, prefix) && len(lower) > len(prefix) {
			rest := part[len(prefix):]
			return capitalize(prefix) + capitalize(strings.ToLower(rest))
		}
	}

	return capitalize(lower)
}

// capitalize переводит первый символ в верхний регистр, остальное не трогает.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
