package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createCommerceTables creates the settings, coupon, payment and reading
// progress tables, and seeds the recommendation settings.
func createCommerceTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "003_create_commerce",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS settings (
					id SERIAL PRIMARY KEY,
					key VARCHAR(100) NOT NULL UNIQUE,
					value TEXT NOT NULL,
					value_ar TEXT,
					description TEXT,
					description_ar TEXT,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS discount_coupons (
					id SERIAL PRIMARY KEY,
					code VARCHAR(50) NOT NULL UNIQUE,
					description TEXT,
					description_ar TEXT,
					discount_type VARCHAR(20) NOT NULL,
					discount_value DECIMAL(10,2) NOT NULL,

					max_discount_amount DECIMAL(10,2) DEFAULT 0,
					min_purchase_amount DECIMAL(10,2) DEFAULT 0,

					usage_limit INTEGER DEFAULT 0,
					used_count INTEGER DEFAULT 0,
					user_id INTEGER DEFAULT 0,

					is_active BOOLEAN DEFAULT TRUE,
					valid_from TIMESTAMP NOT NULL,
					valid_until TIMESTAMP,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS payments (
					id SERIAL PRIMARY KEY,
					user_id INTEGER NOT NULL,
					book_id INTEGER NOT NULL REFERENCES books(id),
					book_type VARCHAR(20),
					amount DECIMAL(10,2) NOT NULL,
					currency VARCHAR(3) NOT NULL,
					payment_method VARCHAR(20) NOT NULL,
					status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
					transaction_id VARCHAR(100) NOT NULL UNIQUE,

					coupon_id INTEGER DEFAULT 0,
					coupon_code VARCHAR(50),
					discount_amount DECIMAL(10,2) DEFAULT 0,

					notes TEXT,
					notes_ar TEXT,

					payment_date TIMESTAMP,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS payment_history (
					id SERIAL PRIMARY KEY,
					payment_id INTEGER NOT NULL REFERENCES payments(id) ON DELETE CASCADE,
					status VARCHAR(20) NOT NULL,
					notes TEXT,
					notes_ar TEXT,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS book_progress (
					id SERIAL PRIMARY KEY,
					user_id INTEGER NOT NULL,
					book_id INTEGER NOT NULL REFERENCES books(id),
					pages_read INTEGER DEFAULT 0,
					total_pages INTEGER DEFAULT 0,
					percentage DECIMAL(5,2) DEFAULT 0,

					last_read_at TIMESTAMP NOT NULL,
					completed_at TIMESTAMP,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_user_book UNIQUE (user_id, book_id)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_discount_coupons_is_active ON discount_coupons(is_active);",
				"CREATE INDEX IF NOT EXISTS idx_discount_coupons_user_id ON discount_coupons(user_id);",
				"CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments(user_id);",
				"CREATE INDEX IF NOT EXISTS idx_payments_book_id ON payments(book_id);",
				"CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);",
				"CREATE INDEX IF NOT EXISTS idx_payment_history_payment_id ON payment_history(payment_id);",
			}
			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			// Seed the recommendation settings with their defaults.
			return tx.Exec(`
				INSERT INTO settings (key, value, description)
				VALUES
					('recommendation_threshold', '70', 'Minimum average score for a book recommendation'),
					('recommended_book_discount', '0', 'Discount percentage applied to recommended books')
				ON CONFLICT (key) DO NOTHING;
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS book_progress;
				DROP TABLE IF EXISTS payment_history;
				DROP TABLE IF EXISTS payments;
				DROP TABLE IF EXISTS discount_coupons;
				DROP TABLE IF EXISTS settings;
			`).Error
		},
	}
}
