package workflow

import "strings"

// FormatMobile rewrites a national mobile number (e.g. 0501234567) into the
// international form expected by the backend (+971501234567).
func FormatMobile(number, countryCode string) string {
	n := strings.Join(strings.Fields(number), "")
	if n == "" || strings.HasPrefix(n, "+") {
		return n
	}

	cc := strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	return "+" + cc + strings.TrimPrefix(n, "0")
}
