package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createEvaluationTables creates the evaluation, criterion, rating and
// linkage tables.
func createEvaluationTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_create_evaluations",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS evaluations (
					id SERIAL PRIMARY KEY,
					title VARCHAR(500) NOT NULL,
					title_ar VARCHAR(500),
					description TEXT,
					description_ar TEXT,
					status VARCHAR(20) NOT NULL DEFAULT 'DRAFT',
					type VARCHAR(30) NOT NULL,

					practices_percentage DECIMAL(5,2) DEFAULT 0,
					patterns_percentage DECIMAL(5,2) DEFAULT 0,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS criteria (
					id SERIAL PRIMARY KEY,
					evaluation_id INTEGER NOT NULL REFERENCES evaluations(id),
					text TEXT NOT NULL,
					text_ar TEXT,
					book_type VARCHAR(20),
					sort_order INTEGER DEFAULT 0,

					weight DECIMAL(10,2) DEFAULT 1,
					max_score DECIMAL(10,2) DEFAULT 10,

					question_percentage DECIMAL(5,2) DEFAULT 0,
					answer1_percentage DECIMAL(5,2) DEFAULT 0,
					answer2_percentage DECIMAL(5,2) DEFAULT 0,
					answer3_percentage DECIMAL(5,2) DEFAULT 0,
					answer4_percentage DECIMAL(5,2) DEFAULT 0,
					answer5_percentage DECIMAL(5,2) DEFAULT 0,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS ratings (
					id SERIAL PRIMARY KEY,
					evaluation_id INTEGER NOT NULL REFERENCES evaluations(id),
					user_id INTEGER NOT NULL,
					status VARCHAR(20) NOT NULL DEFAULT 'DRAFT',
					total_score DECIMAL(10,2) DEFAULT 0,

					submitted_at TIMESTAMP,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_evaluation_user UNIQUE (evaluation_id, user_id)
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS rating_items (
					id SERIAL PRIMARY KEY,
					rating_id INTEGER NOT NULL REFERENCES ratings(id) ON DELETE CASCADE,
					criterion_id INTEGER NOT NULL REFERENCES criteria(id),
					score INTEGER NOT NULL,
					comment TEXT,
					comment_ar TEXT,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			// Exactly one of book_id / book_type may be set per row. The
			// partial unique indexes double as upsert conflict targets.
			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS book_evaluations (
					id SERIAL PRIMARY KEY,
					evaluation_id INTEGER NOT NULL REFERENCES evaluations(id),
					book_id INTEGER REFERENCES books(id),
					book_type VARCHAR(20),

					is_required BOOLEAN DEFAULT FALSE,
					min_score_percentage DECIMAL(5,2) DEFAULT 0,
					sort_order INTEGER DEFAULT 0,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT chk_link_target CHECK (
						(book_id IS NOT NULL AND book_type IS NULL) OR
						(book_id IS NULL AND book_type IS NOT NULL)
					)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_evaluations_status ON evaluations(status);",
				"CREATE INDEX IF NOT EXISTS idx_criteria_evaluation_id ON criteria(evaluation_id);",
				"CREATE INDEX IF NOT EXISTS idx_ratings_status ON ratings(status);",
				"CREATE INDEX IF NOT EXISTS idx_ratings_user_id ON ratings(user_id);",
				"CREATE INDEX IF NOT EXISTS idx_rating_items_rating_id ON rating_items(rating_id);",
				"CREATE INDEX IF NOT EXISTS idx_rating_items_criterion_id ON rating_items(criterion_id);",
				"CREATE INDEX IF NOT EXISTS idx_book_evaluations_evaluation_id ON book_evaluations(evaluation_id);",
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_link_direct
					ON book_evaluations(evaluation_id, book_id) WHERE book_id IS NOT NULL;`,
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_link_type
					ON book_evaluations(evaluation_id, book_type) WHERE book_type IS NOT NULL;`,
			}
			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS book_evaluations;
				DROP TABLE IF EXISTS rating_items;
				DROP TABLE IF EXISTS ratings;
				DROP TABLE IF EXISTS criteria;
				DROP TABLE IF EXISTS evaluations;
			`).Error
		},
	}
}
