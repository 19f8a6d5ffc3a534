package core

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestValidChecksum(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"000000000", true},
		{"711111111", true},
		{"123456789", true},
		{"111111111", false},
		{"987654321", false},
		{"12345678", false},
		{"1234567890", false},
		{"", false},
		{"12345678a", false},
		{"1234 6789", false},
		{"-12345678", false},
		{"１２３４５６７８９", false}, // fullwidth digits
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := ValidChecksum(tt.token); got != tt.want {
				t.Errorf("ValidChecksum(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

// weightedSum computes the checksum from the right, the way the rule is
// usually stated.
func weightedSum(token string) int {
	sum := 0
	for pos := 1; pos <= len(token); pos++ {
		sum += pos * int(token[len(token)-pos]-'0')
	}
	return sum
}

func randomDigits(r *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + r.IntN(10)))
	}
	return b.String()
}

func TestValidChecksum_RandomTokens(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 9))

	for i := 0; i < 10000; i++ {
		token := randomDigits(r, PolicyNumberLength)
		want := weightedSum(token)%11 == 0
		if got := ValidChecksum(token); got != want {
			t.Fatalf("ValidChecksum(%q) = %v, want %v (sum %d)", token, got, want, weightedSum(token))
		}
	}
}

func TestValidChecksum_SingleDigitChangeBreaksValidity(t *testing.T) {
	// Every weight is in 1..9 and 11 is prime, so altering one digit of a
	// valid number always moves the sum off a multiple of 11.
	r := rand.New(rand.NewPCG(3, 5))

	checked := 0
	for checked < 200 {
		token := randomDigits(r, PolicyNumberLength)
		if !ValidChecksum(token) {
			continue
		}
		checked++

		b := []byte(token)
		i := r.IntN(PolicyNumberLength)
		b[i] = byte('0' + (int(b[i]-'0')+1+r.IntN(9))%10)
		if ValidChecksum(string(b)) {
			t.Fatalf("%q is valid but so is %q", token, string(b))
		}
	}
}

func TestValidChecksum_WrongLength(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))

	for n := 0; n <= 20; n++ {
		if n == PolicyNumberLength {
			continue
		}
		for i := 0; i < 50; i++ {
			token := randomDigits(r, n)
			if ValidChecksum(token) {
				t.Fatalf("ValidChecksum(%q) = true for length %d", token, n)
			}
		}
	}
}
