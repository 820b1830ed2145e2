package database

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

// EnsureUser creates the named account if it does not exist yet, hashing the
// given password. Used to bootstrap the first admin from configuration.
func EnsureUser(db *sql.DB, username, password string) error {
	var exists bool
	err := db.QueryRow("SELECT 1 FROM user WHERE username = ?", username).Scan(&exists)
	if err == nil && exists {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec("INSERT INTO user (username, password_hash) VALUES (?, ?)", username, string(hash))
	return err
}
