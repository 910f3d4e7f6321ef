package utils

// RemoveEmptyStrings filters empty entries out of a slice, typically a
// comma-split config value with trailing separators.
func RemoveEmptyStrings(values []string) []string {
	var result []string
	for _, s := range values {
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
