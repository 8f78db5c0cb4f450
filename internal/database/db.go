package database

import (
	"donmenu-backend/internal/config"
	"donmenu-backend/internal/logger"
	"donmenu-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Get().Fatalf("Não foi possível conectar ao banco: %v", err)
	}

	// Migration manual: manual_pricing passou a ser NOT NULL. Registros
	// antigos (preço sempre manual) precisam do backfill ANTES do
	// AutoMigrate aplicar a constraint.
	if DB.Migrator().HasTable(&models.MenuItem{}) && DB.Migrator().HasColumn(&models.MenuItem{}, "manual_pricing") {
		var nullCount int64
		DB.Raw("SELECT COUNT(*) FROM menu_items WHERE manual_pricing IS NULL").Scan(&nullCount)
		if nullCount > 0 {
			logger.Get().Infof("Backfill de manual_pricing em %d itens de cardápio...", nullCount)
			DB.Exec("UPDATE menu_items SET manual_pricing = TRUE WHERE manual_pricing IS NULL")
		}
	}

	err = Migrate(DB)
	if err != nil {
		logger.Get().Fatalf("Erro no AutoMigrate: %v", err)
	}

	logger.Get().Info("Conexão com o banco OK. Migration concluída.")
}

// Migrate roda o AutoMigrate de todos os modelos. Separado do Init para os
// testes reaproveitarem com SQLite em memória.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Restaurant{},
		&models.User{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeLine{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Combo{},
		&models.ComboItem{},
		&models.Sale{},
		&models.SaleLine{},
		&models.Revenue{},
		&models.ExpenseCategory{},
		&models.Expense{},
		&models.StockMovement{},
		&models.WasteEntry{},
		&models.MonthlyReport{},
		&models.Plan{},
		&models.Subscription{},
		&models.RoadmapItem{},
		&models.AuditLog{},
	)
}
