// Package temppass generates temporary passwords for auto-provisioned
// provider accounts. Passwords are generated with crypto/rand; the account
// is flagged force_password_change so the value only has to survive until
// first login.
package temppass

import "crypto/rand"

// Length is the generated password length.
const Length = 12

const alphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Generate returns a new temporary password.
// Panics if the system's cryptographic random number generator fails.
func Generate() string {
	b := make([]byte, Length)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	for i, c := range b {
		b[i] = alphabet[int(c)%len(alphabet)]
	}
	return string(b)
}
