package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createCatalogTables creates the book catalog tables.
func createCatalogTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_catalog",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS book_categories (
					id SERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					name_ar VARCHAR(255),
					sort_order INTEGER DEFAULT 0,
					is_active BOOLEAN DEFAULT TRUE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS books (
					id SERIAL PRIMARY KEY,
					title VARCHAR(500) NOT NULL,
					title_ar VARCHAR(500),
					description TEXT,
					description_ar TEXT,
					author VARCHAR(255),
					author_ar VARCHAR(255),
					isbn VARCHAR(20),
					cover_image VARCHAR(500),
					tags TEXT[],
					pages INTEGER DEFAULT 0,

					book_type VARCHAR(20),
					status VARCHAR(20) NOT NULL DEFAULT 'DRAFT',
					category_id INTEGER REFERENCES book_categories(id),

					price DECIMAL(10,2) NOT NULL DEFAULT 0,
					discount_percentage DECIMAL(5,2) DEFAULT 0,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS book_reviews (
					id SERIAL PRIMARY KEY,
					book_id INTEGER NOT NULL REFERENCES books(id),
					user_id INTEGER NOT NULL,
					rating INTEGER NOT NULL,
					comment TEXT,
					comment_ar TEXT,
					is_approved BOOLEAN DEFAULT FALSE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_books_status ON books(status);",
				"CREATE INDEX IF NOT EXISTS idx_books_book_type ON books(book_type);",
				"CREATE INDEX IF NOT EXISTS idx_books_category_id ON books(category_id);",
				"CREATE INDEX IF NOT EXISTS idx_books_isbn ON books(isbn);",
				"CREATE INDEX IF NOT EXISTS idx_book_reviews_book_id ON book_reviews(book_id);",
				"CREATE INDEX IF NOT EXISTS idx_book_reviews_user_id ON book_reviews(user_id);",
				"CREATE INDEX IF NOT EXISTS idx_book_reviews_is_approved ON book_reviews(is_approved);",
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
				DROP TABLE IF EXISTS book_reviews;
				DROP TABLE IF EXISTS books;
				DROP TABLE IF EXISTS book_categories;
			`).Error
		},
	}
}
