package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE chapters (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				title_i18n TEXT,
				slug TEXT NOT NULL,
				content TEXT NOT NULL,
				content_i18n TEXT,
				excerpt TEXT NOT NULL DEFAULT '',
				excerpt_i18n TEXT,
				chapter_number INTEGER NOT NULL,
				reading_time INTEGER NOT NULL DEFAULT 0,
				published_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				image_url TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_chapters_slug ON chapters (slug)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_chapters_chapter_number ON chapters (chapter_number)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE characters (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				name_i18n TEXT,
				title TEXT NOT NULL DEFAULT '',
				title_i18n TEXT,
				description TEXT NOT NULL DEFAULT '',
				description_i18n TEXT,
				slug TEXT NOT NULL,
				image_url TEXT,
				role TEXT NOT NULL
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_characters_slug ON characters (slug)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE locations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				name_i18n TEXT,
				description TEXT NOT NULL DEFAULT '',
				description_i18n TEXT,
				map_x REAL NOT NULL,
				map_y REAL NOT NULL,
				type TEXT NOT NULL
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE codex_entries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				title_i18n TEXT,
				description TEXT NOT NULL DEFAULT '',
				description_i18n TEXT,
				category TEXT NOT NULL,
				image_url TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_codex_entries_category ON codex_entries (category)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE blog_posts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				title_i18n TEXT,
				slug TEXT NOT NULL,
				content TEXT NOT NULL,
				content_i18n TEXT,
				excerpt TEXT NOT NULL DEFAULT '',
				excerpt_i18n TEXT,
				category TEXT NOT NULL,
				published_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				image_url TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_blog_posts_slug ON blog_posts (slug)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_blog_posts_category ON blog_posts (category)`)
		if err != nil {
			return errors.WithStack(err)
		}

		// chapter_id is a nominal reference: no cascade is defined.
		_, err = db.Exec(`
			CREATE TABLE reading_progress (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				chapter_id INTEGER NOT NULL REFERENCES chapters (id),
				session_id TEXT NOT NULL,
				progress INTEGER NOT NULL DEFAULT 0,
				last_read_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_reading_progress_session_chapter ON reading_progress (session_id, chapter_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE users (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				email TEXT NOT NULL COLLATE NOCASE,
				first_name TEXT,
				last_name TEXT,
				profile_image_url TEXT,
				is_admin BOOLEAN NOT NULL DEFAULT FALSE,
				password_hash TEXT NOT NULL DEFAULT ''
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_users_email ON users (email COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		tables := []string{"users", "reading_progress", "blog_posts", "codex_entries", "locations", "characters", "chapters"}
		for _, table := range tables {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
