package uid

import "github.com/google/uuid"

// GenerateGameID returns a random (v4) UUID string for a hosted game
func GenerateGameID() string {
	return uuid.NewString()
}

// IsGameID reports whether id has the shape of an ID from GenerateGameID.
func IsGameID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
