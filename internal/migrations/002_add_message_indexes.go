package migrations

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Migration002AddMessageIndexes adds the indexes the hot read paths depend on:
// room history fetches, board feed scans and the idempotency lookup on
// client-supplied message ids.
func Migration002AddMessageIndexes() Migration {
	return Migration{
		ID:   "002_add_message_indexes",
		Name: "Add performance indexes for message queries",
		Up: func(db *gorm.DB) error {
			indexes := []struct {
				name string
				sql  string
			}{
				{
					name: "idx_messages_room_created",
					sql:  `CREATE INDEX IF NOT EXISTS idx_messages_room_created ON messages (room_id, created_at)`,
				},
				{
					// Board feed: all group posts, newest first
					name: "idx_messages_board_created",
					sql:  `CREATE INDEX IF NOT EXISTS idx_messages_board_created ON messages (created_at DESC) WHERE receiver_id IS NULL`,
				},
				{
					name: "idx_messages_parent",
					sql:  `CREATE INDEX IF NOT EXISTS idx_messages_parent ON messages (parent_id) WHERE parent_id IS NOT NULL`,
				},
				{
					// One confirmed row per (sender, client token)
					name: "uniq_messages_sender_client_id",
					sql:  `CREATE UNIQUE INDEX IF NOT EXISTS uniq_messages_sender_client_id ON messages (sender_id, client_message_id) WHERE client_message_id IS NOT NULL`,
				},
			}

			for _, idx := range indexes {
				if err := db.Exec(idx.sql).Error; err != nil {
					return err
				}
				log.Info().Str("index", idx.name).Msg("   ✅ Index ensured")
			}

			return nil
		},
		Down: func(db *gorm.DB) error {
			drops := []string{
				`DROP INDEX IF EXISTS idx_messages_room_created`,
				`DROP INDEX IF EXISTS idx_messages_board_created`,
				`DROP INDEX IF EXISTS idx_messages_parent`,
				`DROP INDEX IF EXISTS uniq_messages_sender_client_id`,
			}
			for _, sql := range drops {
				if err := db.Exec(sql).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
