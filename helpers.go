package pubfront

// dateOnly trims a WordPress timestamp to its YYYY-MM-DD prefix.
func dateOnly(s string) string {
	if len(s) >= len("2006-01-02") {
		return s[:len("2006-01-02")]
	}
	return s
}
