package postgres

// Migrate runs gorm auto-migrations for the provided models.
func (p *Postgres) Migrate(models ...interface{}) error {
	return TranslateError(p.DB().AutoMigrate(models...))
}
