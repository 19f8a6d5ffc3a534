package core

// PolicyNumberLength is the only token length the checksum accepts.
const PolicyNumberLength = 9

// ValidChecksum reports whether token is a well-formed policy number.
//
// The token must be exactly nine ASCII digits. Each digit is weighted by its
// position counted from the right (rightmost digit weight 1, leftmost 9) and
// the number is valid when the weighted sum is divisible by 11. Any other
// input, including a non-digit inside a nine-character token, yields false.
func ValidChecksum(token string) bool {
	if len(token) != PolicyNumberLength {
		return false
	}

	sum := 0
	for i := 0; i < PolicyNumberLength; i++ {
		c := token[i]
		if c < '0' || c > '9' {
			return false
		}
		weight := PolicyNumberLength - i
		sum += weight * int(c-'0')
	}
	return sum%11 == 0
}
