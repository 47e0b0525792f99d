package migrations

import (
	"gorm.io/gorm"
)

// Migration001AddParentFK adds the self-referential foreign key for reply
// threading. Done via raw SQL because GORM's auto-migration mishandles
// self-referential constraints on text primary keys.
func Migration001AddParentFK() Migration {
	return Migration{
		ID:   "001_add_parent_fk",
		Name: "Add foreign key constraint for message reply threading",
		Up: func(db *gorm.DB) error {
			// 1. Null out any parent references that no longer resolve
			cleanupSQL := `
				UPDATE messages
				SET parent_id = NULL
				WHERE parent_id IS NOT NULL
				AND parent_id::text NOT IN (SELECT id::text FROM messages)
			`
			if err := db.Exec(cleanupSQL).Error; err != nil {
				return err
			}

			// 2. Check if constraint already exists
			var count int64
			checkSQL := `
				SELECT COUNT(*)
				FROM information_schema.table_constraints
				WHERE constraint_name = 'fk_messages_parent'
				AND table_name = 'messages'
			`
			if err := db.Raw(checkSQL).Scan(&count).Error; err != nil {
				return err
			}

			if count > 0 {
				return nil
			}

			// 3. Add constraint. ON DELETE SET NULL keeps replies visible as
			// top-level orphans rather than cascading deletes down a thread.
			addFKSQL := `
				ALTER TABLE messages
				ADD CONSTRAINT fk_messages_parent
				FOREIGN KEY (parent_id)
				REFERENCES messages(id)
				ON DELETE SET NULL
				ON UPDATE CASCADE
			`
			return db.Exec(addFKSQL).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`
				ALTER TABLE messages
				DROP CONSTRAINT IF EXISTS fk_messages_parent
			`).Error
		},
	}
}
