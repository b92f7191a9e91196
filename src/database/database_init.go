package database

import (
	appbuilder "docvault/pkg/app_builder"
	"docvault/pkg/utilities"

	"gorm.io/gorm"
)

type AppConfig interface {
	appbuilder.AppConfig
	GetDatabaseConfig() DatabaseConfig
}

// ConnectToDatabase opens the configured database and runs migrations when
// enabled. Any failure is fatal at startup.
func ConnectToDatabase[T utilities.JsonConfigObj[U], U AppConfig](a *appbuilder.AppBuilder[T, U]) *gorm.DB {
	cfg := a.Config.GetDatabaseConfig()
	a.Logger.Infof("Establishing connection to %s database...", cfg.Driver)

	db, err := Open(cfg)
	if err != nil {
		a.Logger.Fatal(err, "Cannot establish database connection")
	}
	a.Logger.Info("Database connection established successfully.")

	if cfg.Migrate {
		a.Logger.Info("Running migrations for tables... ")
		if err := AutoMigrate(db); err != nil {
			a.Logger.Fatal(err, "Migrating database failed")
		}
		a.Logger.Info("All tables created (or already exist).")
	}

	return db
}
