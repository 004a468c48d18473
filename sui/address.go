package sui

// IsValidAddress checks that s is a normalized Sui address: "0x" followed by
// exactly 64 hex digits. It performs no I/O; invalid addresses are treated
// downstream as "no wallet connected" rather than as errors.
func IsValidAddress(s string) bool {
	if len(s) != 66 {
		return false
	}
	if s[0] != '0' || s[1] != 'x' {
		return false
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
