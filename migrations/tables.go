package migrations

// idColumn is the auto-incrementing primary key for each dialect.
func idColumn(mysql bool) string {
	if mysql {
		return "id BIGINT AUTO_INCREMENT PRIMARY KEY"
	}
	return "id BIGSERIAL PRIMARY KEY"
}

// tableOptions is appended after the closing parenthesis of CREATE TABLE.
func tableOptions(mysql bool) string {
	if mysql {
		return " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	}
	return ""
}

// createUsersTable creates the users table.
// Email is indexed but not unique: several accounts may share an address.
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   "users",
		Statements: func(mysql bool) []string {
			emailIndex := `CREATE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email))`
			if mysql {
				emailIndex = `CREATE INDEX idx_users_email ON users (email)`
			}
			return []string{
				`CREATE TABLE IF NOT EXISTS users (
					` + idColumn(mysql) + `,
					username VARCHAR(150) NOT NULL,
					email VARCHAR(254) NOT NULL DEFAULT '',
					password_hash VARCHAR(255) NOT NULL,
					salt VARCHAR(255) NOT NULL,
					is_staff BOOLEAN NOT NULL DEFAULT FALSE,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					last_login TIMESTAMP NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT idx_users_username UNIQUE (username)
				)` + tableOptions(mysql),
				emailIndex,
			}
		},
	}
}

// createCategoriesTable creates the categories table.
func createCategoriesTable() Migration {
	return Migration{
		Name:        "create_categories_table",
		Description: "Creates the catalog categories table",
		TableName:   "categories",
		Statements: func(mysql bool) []string {
			return []string{
				`CREATE TABLE IF NOT EXISTS categories (
					` + idColumn(mysql) + `,
					name VARCHAR(100) NOT NULL,
					image VARCHAR(255) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				)` + tableOptions(mysql),
			}
		},
	}
}

// createProductsTable creates the products table. Deleting a category removes
// its products in the repository, so the foreign key itself does not cascade.
func createProductsTable() Migration {
	return Migration{
		Name:        "create_products_table",
		Description: "Creates the catalog products table",
		TableName:   "products",
		Statements: func(mysql bool) []string {
			categoryIndex := `CREATE INDEX IF NOT EXISTS idx_products_category_id ON products (category_id)`
			if mysql {
				// InnoDB indexes foreign key columns itself.
				categoryIndex = ""
			}
			stmts := []string{
				`CREATE TABLE IF NOT EXISTS products (
					` + idColumn(mysql) + `,
					category_id BIGINT NOT NULL,
					name VARCHAR(200) NOT NULL,
					image VARCHAR(255) NOT NULL,
					price DECIMAL(10, 2) NOT NULL,
					description TEXT NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT chk_products_price CHECK (price >= 0),
					CONSTRAINT fk_products_category FOREIGN KEY (category_id) REFERENCES categories(id)
				)` + tableOptions(mysql),
			}
			if categoryIndex != "" {
				stmts = append(stmts, categoryIndex)
			}
			return stmts
		},
	}
}
