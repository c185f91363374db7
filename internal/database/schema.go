package database

import (
	"context"
	"database/sql"
)

// Table DDL, ordered parent-first. Foreign keys are declared without
// ON DELETE CASCADE on purpose: dependent rows are removed explicitly by
// the repository layer in a fixed order inside one transaction.
var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name            VARCHAR(255)    NOT NULL,
		email           VARCHAR(255)    NULL,
		hashed_password VARCHAR(255)    NOT NULL,
		created_at      DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_login      DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		disabled        TINYINT(1)      NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_name (name),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS assistants (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		name       VARCHAR(255)    NOT NULL,
		model      VARCHAR(255)    NOT NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_assistants_user (user_id),
		CONSTRAINT fk_assistants_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id      BIGINT UNSIGNED NOT NULL,
		assistant_id BIGINT UNSIGNED NOT NULL,
		title        VARCHAR(255)    NOT NULL,
		created_at   DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_conversations_user (user_id),
		KEY idx_conversations_assistant (assistant_id),
		CONSTRAINT fk_conversations_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_conversations_assistant FOREIGN KEY (assistant_id) REFERENCES assistants (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS messages (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		conversation_id BIGINT UNSIGNED NOT NULL,
		role            VARCHAR(16)     NOT NULL,
		content         TEXT            NOT NULL,
		created_at      DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_messages_conversation (conversation_id),
		CONSTRAINT fk_messages_conversation FOREIGN KEY (conversation_id) REFERENCES conversations (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Child-first drop order so foreign keys never block.
var dropStatements = []string{
	`DROP TABLE IF EXISTS messages`,
	`DROP TABLE IF EXISTS conversations`,
	`DROP TABLE IF EXISTS assistants`,
	`DROP TABLE IF EXISTS users`,
}

// CreateTables creates all application tables if they do not exist yet.
func CreateTables(ctx context.Context, db *sql.DB) error {
	for _, q := range createStatements {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// DropTables removes all application tables. Used by the development
// bootstrap to guarantee a clean state on startup.
func DropTables(ctx context.Context, db *sql.DB) error {
	for _, q := range dropStatements {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
