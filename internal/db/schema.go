package db

import "fmt"

// createTables bootstraps the schema. Safe to call repeatedly; everything
// uses IF NOT EXISTS or CREATE OR REPLACE.
func (d *DB) createTables() error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	view := "CREATE VIEW IF NOT EXISTS"
	switch d.driver {
	case "postgres":
		pk = "SERIAL PRIMARY KEY"
		view = "CREATE OR REPLACE VIEW"
	case "mysql":
		pk = "INT AUTO_INCREMENT PRIMARY KEY"
		view = "CREATE OR REPLACE VIEW"
	}

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			username VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(32) NOT NULL DEFAULT 'user',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS planets (
			id %s,
			name VARCHAR(255) NOT NULL,
			distance_from_sun VARCHAR(255) NOT NULL,
			diameter VARCHAR(255) NOT NULL,
			orbital_period VARCHAR(255) NOT NULL,
			details TEXT NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS asteroids (
			id %s,
			name VARCHAR(255) NOT NULL,
			discovery_year VARCHAR(255) NOT NULL,
			diameter VARCHAR(255) NOT NULL,
			distance_from_sun VARCHAR(255) NOT NULL,
			details TEXT NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS comets (
			id %s,
			name VARCHAR(255) NOT NULL,
			distance_from_sun VARCHAR(255) NOT NULL,
			orbital_period VARCHAR(255) NOT NULL,
			last_observed VARCHAR(255) NOT NULL,
			details TEXT NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS quizzes (
			id %s,
			category VARCHAR(255) NOT NULL,
			question TEXT NOT NULL,
			option_a VARCHAR(255) NOT NULL,
			option_b VARCHAR(255) NOT NULL,
			option_c VARCHAR(255) NOT NULL,
			option_d VARCHAR(255) NOT NULL,
			correct_answer VARCHAR(1) NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS quiz_results (
			id %s,
			user_id INTEGER NOT NULL REFERENCES users(id),
			category VARCHAR(255) NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL,
			taken_at TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`%s user_quiz_results_view AS
			SELECT u.username, u.email, r.category, r.score, r.total,
				ROUND(CASE WHEN r.total > 0
					THEN r.score * 100.0 / r.total
					ELSE 0 END, 1) AS percentage,
				r.taken_at
			FROM quiz_results r
			JOIN users u ON u.id = r.user_id`, view),
	}

	for _, query := range queries {
		if _, err := d.DB.Exec(query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}
