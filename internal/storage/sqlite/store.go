package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/yotip/homestead/internal/profile"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
)

const minPasswordLen = 6

// Store wraps access to the SQLite database and exposes high level helpers.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Account is a registered sign-in identity. Its ID doubles as the profile id.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"-"`
}

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
            id TEXT PRIMARY KEY,
            username TEXT UNIQUE,
            theme TEXT NOT NULL DEFAULT '',
            coins INTEGER NOT NULL DEFAULT 0,
            game_data TEXT NOT NULL DEFAULT '{}',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS accounts (
            id TEXT PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            password_hash BLOB NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TRIGGER IF NOT EXISTS trg_profiles_updated
            AFTER UPDATE ON profiles
            FOR EACH ROW BEGIN
                UPDATE profiles SET updated_at = CURRENT_TIMESTAMP WHERE id = OLD.id;
            END;`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// gameData is the JSON column holding the list-valued parts of a profile.
type gameData struct {
	Objects []profile.DecorativeObject `json:"objects"`
	Tasks   []profile.Task             `json:"tasks"`
}

type rowScanner interface {
	Scan(dest ...any) error
}

// GetProfile returns the stored profile for id, or ErrNotFound.
func (s *Store) GetProfile(ctx context.Context, id string) (profile.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT username, theme, coins, game_data FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, ErrNotFound
	}
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile %s: %w", id, err)
	}
	return p, nil
}

func scanProfile(row rowScanner) (profile.Profile, error) {
	var (
		username sql.NullString
		p        profile.Profile
		raw      string
	)
	if err := row.Scan(&username, &p.Theme, &p.Coins, &raw); err != nil {
		return profile.Profile{}, err
	}
	p.Username = username.String

	var data gameData
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return profile.Profile{}, fmt.Errorf("decode game data: %w", err)
		}
	}
	p.Objects = data.Objects
	p.Tasks = data.Tasks
	return p, nil
}

// UpsertProfile creates the profile for id or merges fields into the stored
// row. Members left nil keep their stored value, so a partial update never
// drops objects or tasks. A username already held by another profile yields
// ErrUsernameTaken and leaves the row unchanged.
func (s *Store) UpsertProfile(ctx context.Context, id string, fields profile.Fields) (profile.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return profile.Profile{}, fmt.Errorf("profile id must not be empty: %w", ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanProfile(tx.QueryRowContext(ctx, `SELECT username, theme, coins, game_data FROM profiles WHERE id = ?`, id))
	exists := true
	if errors.Is(err, sql.ErrNoRows) {
		exists = false
	} else if err != nil {
		return profile.Profile{}, fmt.Errorf("load profile %s: %w", id, err)
	}

	merged := current.Merge(fields)
	merged.Coins = profile.ClampCoins(merged.Coins)

	encoded, err := json.Marshal(gameData{Objects: merged.Objects, Tasks: merged.Tasks})
	if err != nil {
		return profile.Profile{}, fmt.Errorf("encode game data: %w", err)
	}

	var username any
	if name := strings.ToLower(strings.TrimSpace(merged.Username)); name != "" {
		merged.Username = name
		username = name
	}

	if exists {
		_, err = tx.ExecContext(ctx, `UPDATE profiles SET username = ?, theme = ?, coins = ?, game_data = ? WHERE id = ?`,
			username, merged.Theme, merged.Coins, string(encoded), id)
	} else {
		_, err = tx.ExecContext(ctx, `INSERT INTO profiles(id, username, theme, coins, game_data) VALUES(?, ?, ?, ?, ?)`,
			id, username, merged.Theme, merged.Coins, string(encoded))
	}
	if isUniqueViolation(err) {
		return profile.Profile{}, ErrUsernameTaken
	}
	if err != nil {
		return profile.Profile{}, fmt.Errorf("write profile %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return profile.Profile{}, fmt.Errorf("commit profile %s: %w", id, err)
	}
	s.logger.Debug("profile upserted", "id", id, "created", !exists, "coins", merged.Coins, "tasks", len(merged.Tasks))
	return merged, nil
}

// UsernameOwner returns the id of the profile holding username, or ErrNotFound.
func (s *Store) UsernameOwner(ctx context.Context, username string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM profiles WHERE username = ?`, strings.ToLower(strings.TrimSpace(username))).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup username: %w", err)
	}
	return id, nil
}

// CreateAccount registers email with a bcrypt hash of password.
func (s *Store) CreateAccount(ctx context.Context, email, password string) (Account, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return Account{}, fmt.Errorf("email %q is not valid: %w", email, ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return Account{}, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	acct := Account{ID: uuid.NewString(), Email: email, CreatedAt: time.Now().UTC()}
	_, err = s.db.ExecContext(ctx, `INSERT INTO accounts(id, email, password_hash, created_at) VALUES(?, ?, ?, ?)`,
		acct.ID, acct.Email, hash, acct.CreatedAt)
	if isUniqueViolation(err) {
		return Account{}, ErrEmailTaken
	}
	if err != nil {
		return Account{}, fmt.Errorf("insert account: %w", err)
	}
	return acct, nil
}

// Authenticate checks password against the stored hash for email.
func (s *Store) Authenticate(ctx context.Context, email, password string) (Account, error) {
	var (
		acct Account
		hash []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`, normalizeEmail(email)).
		Scan(&acct.ID, &acct.Email, &hash, &acct.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, fmt.Errorf("load account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return acct, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique
}
