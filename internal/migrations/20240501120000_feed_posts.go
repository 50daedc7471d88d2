package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upFeedPosts, downFeedPosts)
}

func upFeedPosts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE feed_posts (
		id            UUID PRIMARY KEY,
		title         VARCHAR NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		category      VARCHAR NOT NULL,
		like_count    INTEGER NOT NULL DEFAULT 0,
		comment_count INTEGER NOT NULL DEFAULT 0,
		author_name   VARCHAR NOT NULL DEFAULT '',
		author_avatar VARCHAR NOT NULL DEFAULT '',
		created_at    TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
	CREATE INDEX feed_posts_created_at_idx ON feed_posts (created_at DESC);
	`)
	return err
}

func downFeedPosts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE feed_posts;
	`)
	return err
}
