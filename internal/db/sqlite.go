package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"

	"github.com/RichardoC/padchat/internal/models"
)

// ErrNotFound is returned when a chat id does not exist.
var ErrNotFound = errors.New("chat not found")

const schema = `
CREATE TABLE IF NOT EXISTS chats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    model TEXT NOT NULL,
    system_prompt TEXT NOT NULL DEFAULT '',
    temperature REAL NOT NULL DEFAULT 0.7,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    chat_id INTEGER NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS messages_chat_id ON messages(chat_id);`

type Database struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection keeps writes serialised and lets :memory: work.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, multierr.Append(err, db.Close())
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, multierr.Append(fmt.Errorf("apply schema: %w", err), db.Close())
	}

	return &Database{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (db *Database) Close() error {
	return db.db.Close()
}

func (db *Database) CreateChat(title string, s models.Settings) (*models.Chat, error) {
	query := `
        INSERT INTO chats (title, model, system_prompt, temperature, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        RETURNING id`

	now := db.now()
	chat := &models.Chat{
		Title:        title,
		Model:        s.Model,
		SystemPrompt: s.SystemPrompt,
		Temperature:  s.Temperature,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := db.db.QueryRow(query, title, s.Model, s.SystemPrompt, s.Temperature, now, now).Scan(&chat.ID)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// GetChats lists chats, most recently updated first.
func (db *Database) GetChats() ([]models.Chat, error) {
	query := `
        SELECT id, title, model, system_prompt, temperature, created_at, updated_at
        FROM chats
        ORDER BY updated_at DESC, id DESC`

	rows, err := db.db.Query(query)
	if err != nil {
		return []models.Chat{}, err
	}
	defer rows.Close()

	chats := make([]models.Chat, 0)
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.Title, &c.Model, &c.SystemPrompt, &c.Temperature, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return []models.Chat{}, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (db *Database) GetChat(id int64) (*models.Chat, error) {
	query := `
        SELECT id, title, model, system_prompt, temperature, created_at, updated_at
        FROM chats
        WHERE id = ?`

	var c models.Chat
	err := db.db.QueryRow(query, id).Scan(&c.ID, &c.Title, &c.Model, &c.SystemPrompt, &c.Temperature, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *Database) SaveMessage(msg *models.Message) error {
	query := `
        INSERT INTO messages (chat_id, role, content, created_at)
        VALUES (?, ?, ?, ?)
        RETURNING id`

	msg.CreatedAt = db.now()
	return db.db.QueryRow(query, msg.ConvID, msg.Role, msg.Content, msg.CreatedAt).Scan(&msg.ID)
}

// GetMessages returns a chat's messages in insertion order.
func (db *Database) GetMessages(chatID int64) ([]models.Message, error) {
	query := `
        SELECT id, chat_id, role, content, created_at
        FROM messages
        WHERE chat_id = ?
        ORDER BY id ASC`

	rows, err := db.db.Query(query, chatID)
	if err != nil {
		return []models.Message{}, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConvID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return []models.Message{}, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// UpdateSettings applies the non-nil fields of req.
func (db *Database) UpdateSettings(id int64, req models.UpdateSettingsRequest) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT 1 FROM chats WHERE id = ?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if req.Model != nil {
		if _, err := tx.Exec("UPDATE chats SET model = ? WHERE id = ?", *req.Model, id); err != nil {
			return err
		}
	}
	if req.SystemPrompt != nil {
		if _, err := tx.Exec("UPDATE chats SET system_prompt = ? WHERE id = ?", *req.SystemPrompt, id); err != nil {
			return err
		}
	}
	if req.Temperature != nil {
		if _, err := tx.Exec("UPDATE chats SET temperature = ? WHERE id = ?", *req.Temperature, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// TouchChat sets the title and bumps updated_at so the chat lists first.
func (db *Database) TouchChat(id int64, title string) error {
	res, err := db.db.Exec("UPDATE chats SET title = ?, updated_at = ? WHERE id = ?", title, db.now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *Database) DeleteChat(id int64) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Delete messages
	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = ?", id); err != nil {
		return err
	}

	// Delete chat
	res, err := tx.Exec("DELETE FROM chats WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
