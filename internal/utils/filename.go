package utils

// SanitizeFileName replaces every non-alphanumeric rune with an underscore so
// a product name can be used as a download file name on any filesystem.
func SanitizeFileName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
