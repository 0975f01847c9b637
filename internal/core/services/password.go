package services

import "golang.org/x/crypto/bcrypt"

const minStudentPassword = 4

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashPassword is used by the admin CLI when seeding accounts.
func HashPassword(plain string) (string, error) {
	return hashPassword(plain)
}
