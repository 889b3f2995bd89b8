package config

type Board struct{}

func (b *Board) Prefix() string {
	return "board"
}

func (b *Board) Load(app *Config) {
	app.Add("app.name", "Bidboard")
	app.Add("app.version", "1.0.0")
	app.Add("app.env", app.Env("APP_ENV", "development"))
	app.Add("app.port", app.Env("APP_PORT", 3000))
	app.Add(b.Prefix(), map[string]any{
		"secret":           app.Env("BOARD_SECRET", "zJ3mQeV7pT1hYw9cKxN5rB8dLf2sGa0u"),
		"site_name":        app.Env("BOARD_SITE_NAME", "bidboard"),
		"site_description": app.Env("BOARD_SITE_DESCRIPTION", "A small forum for posts, bids and plain talk."),

		"cookie_id_name":   app.Env("BOARD_COOKIE_ID_NAME", "uid"),
		"cookie_hash_name": app.Env("BOARD_COOKIE_HASH_NAME", "uhash"),
		"password_algo":    app.Env("BOARD_PASSWORD_ALGO", "md5"),

		"admission_ttl":    app.Env("BOARD_ADMISSION_TTL", "2s"),
		"comment_cooldown": app.Env("BOARD_COMMENT_COOLDOWN", "2s"),
		"page_size":        app.Env("BOARD_PAGE_SIZE", 20),
	})
	app.Add("db", map[string]any{
		"driver":   app.Env("DB_DRIVER", "sqlite"),
		"file":     app.Env("DB_FILE", "bidboard.db"),
		"host":     app.Env("DB_HOST", "localhost"),
		"port":     app.Env("DB_PORT", 5432),
		"user":     app.Env("DB_USER", "postgres"),
		"password": app.Env("DB_PASSWORD", "postgres"),
		"name":     app.Env("DB_NAME", "bidboard"),
	})
	app.Add("smtp", map[string]any{
		"host":     app.Env("SMTP_HOST", ""),
		"port":     app.Env("SMTP_PORT", 587),
		"user":     app.Env("SMTP_USER", ""),
		"password": app.Env("SMTP_PASSWORD", ""),
		"from":     app.Env("SMTP_FROM", "bidboard@localhost"),
	})
}
