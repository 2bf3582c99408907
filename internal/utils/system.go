package utils

import (
	"fmt"
	"os"
	"os/user"
)

// GetUsername returns the current username, falling back to $USER.
func GetUsername() (string, error) {
	u, err := user.Current()
	if err == nil && u.Username != "" {
		return u.Username, nil
	}
	if name := os.Getenv("USER"); name != "" {
		return name, nil
	}
	if err == nil {
		err = fmt.Errorf("empty username")
	}
	return "", err
}
