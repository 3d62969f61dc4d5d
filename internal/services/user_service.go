package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/medicare-be/internal/auth"
	"github.com/isdelr/medicare-be/internal/models"
	"github.com/mattn/go-sqlite3"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(username, password, role string) (models.User, error)
	Login(username, password string) (string, models.User, error)
	GetUserByID(id int64) (models.User, error)
	GetAllUsers() ([]models.User, error)
}

// UserService provides business logic for signup and login.
type UserService struct {
	db     *sql.DB
	issuer *auth.TokenIssuer
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, issuer *auth.TokenIssuer) *UserService {
	return &UserService{db: db, issuer: issuer}
}

// Signup creates a new user with a hashed password. The store's unique
// constraint on username decides races between concurrent signups; there is
// deliberately no check-then-insert here.
func (s *UserService) Signup(username, password, role string) (models.User, error) {
	if username == "" || password == "" || role == "" {
		return models.User{}, ErrInvalidInput
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	res, err := s.db.Exec("INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)", username, hashed, role)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return models.User{}, ErrUserExists
		}
		return models.User{}, storageErr("insert user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, storageErr("insert user", err)
	}

	return models.User{ID: id, Username: username, Role: role}, nil
}

// Login verifies credentials and issues a session token. An unknown username
// and a wrong password fail with the same error so callers cannot probe for
// which usernames exist.
func (s *UserService) Login(username, password string) (string, models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, role FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, storageErr("select user", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("issue token: %w", err)
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return token, user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, role, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, storageErr("select user", err)
	}
	return user, nil
}

// GetAllUsers lists every user. The password hash is never selected.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, username, role, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, storageErr("select users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Role, &user.CreatedAt); err != nil {
			return nil, storageErr("scan user", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
