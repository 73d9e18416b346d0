package migrate

import (
	"context"

	"crm-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, uuid-ossp, pg_trgm
	CreateChecks           bool // CHECK-constraint для целостности
	CreateIndexes          bool // индексы и UNIQUE
	CreateFKsViaSQL        bool // FK через SQL (поверх GORM-constraint)
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

func MigrateCRMDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных CRM")

	// Расширения
	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
			log.Error("Не удалось включить расширение uuid-ossp", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
			log.Error("Не удалось включить расширение pg_trgm", zap.Error(err))
			return err
		}
		log.Info("Расширения PostgreSQL успешно созданы")
	}

	// Таблицы
	log.Info("Создание таблиц CRM")
	if err := db.AutoMigrate(
		&models.Material{},
		&models.Product{},
		&models.ProductMaterial{},
		&models.ProductPriceTier{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemMaterial{},
		&models.OrderCost{},
		&models.Expense{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}
	log.Info("Таблицы успешно созданы")

	// Триггер updated_at для orders
	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггера updated_at для orders")
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("Не удалось создать триггер updated_at", zap.Error(err))
			return err
		}
		log.Info("Триггер updated_at успешно создан")
	}

	// CHECK-constraint
	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")

		// Статус заказа: значение 1 в перечислении не используется
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN (0, 2, 3, 4, 5, 6));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для статусов заказа", zap.Error(err))
			return err
		}

		// Оплачено не бывает отрицательным
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_paid_non_negative;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_paid_non_negative
  CHECK (paid_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для orders.paid_cents", zap.Error(err))
			return err
		}

		// Количество > 0
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_quantity_gt_zero
  CHECK (quantity > 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для order_items.quantity", zap.Error(err))
			return err
		}

		// Цены неотрицательные
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_price_non_negative;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_price_non_negative
  CHECK (unit_price_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для order_items.unit_price_cents", zap.Error(err))
			return err
		}

		// Расход материала не бывает отрицательным
		if err := db.Exec(`
ALTER TABLE order_item_materials
  DROP CONSTRAINT IF EXISTS chk_order_item_materials_usage_non_negative;
ALTER TABLE order_item_materials
  ADD CONSTRAINT chk_order_item_materials_usage_non_negative
  CHECK (budgeted_usage >= 0 AND actual_usage >= 0 AND material_unit_price_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для order_item_materials", zap.Error(err))
			return err
		}

		// Остаток на складе не уходит в минус
		if err := db.Exec(`
ALTER TABLE materials
  DROP CONSTRAINT IF EXISTS chk_materials_count_left_non_negative;
ALTER TABLE materials
  ADD CONSTRAINT chk_materials_count_left_non_negative
  CHECK (count_left >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для materials.count_left", zap.Error(err))
			return err
		}

		// Диапазоны тиров корректны
		if err := db.Exec(`
ALTER TABLE product_price_tiers
  DROP CONSTRAINT IF EXISTS chk_price_tiers_range_valid;
ALTER TABLE product_price_tiers
  ADD CONSTRAINT chk_price_tiers_range_valid
  CHECK (range_start >= 1 AND range_end >= range_start AND price_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для product_price_tiers", zap.Error(err))
			return err
		}

		// Доп. расходы и накладные расходы неотрицательные
		if err := db.Exec(`
ALTER TABLE order_costs
  DROP CONSTRAINT IF EXISTS chk_order_costs_non_negative;
ALTER TABLE order_costs
  ADD CONSTRAINT chk_order_costs_non_negative
  CHECK (cost_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для order_costs.cost_cents", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE expenses
  DROP CONSTRAINT IF EXISTS chk_expenses_amount_non_negative;
ALTER TABLE expenses
  ADD CONSTRAINT chk_expenses_amount_non_negative
  CHECK (amount_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для expenses.amount_cents", zap.Error(err))
			return err
		}

		log.Info("CHECK-ограничения успешно созданы")
	}

	// Индексы
	if opt.CreateIndexes {
		log.Info("Создание индексов")

		// Композитный UNIQUE(order_id, product_id) на случай если тегами не создался
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_order_items_order_product
ON order_items (order_id, product_id);
`).Error; err != nil {
			log.Error("Не удалось создать уникальный индекс ux_order_items_order_product", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_order_item_materials
ON order_item_materials (order_item_id, material_id);
`).Error; err != nil {
			log.Error("Не удалось создать уникальный индекс ux_order_item_materials", zap.Error(err))
			return err
		}

		// Для выборок по статусу и дате
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_status_created
ON orders (status, created_at DESC);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_orders_status_created", zap.Error(err))
			return err
		}

		// Поиск заказов по имени клиента
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_customer_trgm
ON orders USING gin (customer gin_trgm_ops);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_orders_customer_trgm", zap.Error(err))
			return err
		}

		// Статистика расходов по дням
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_expenses_actual_date
ON expenses (actual_date);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_expenses_actual_date", zap.Error(err))
			return err
		}

		log.Info("Индексы успешно созданы")
	}

	// Внешние ключи
	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")

		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK order_items.order_id -> orders.id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE order_item_materials
  DROP CONSTRAINT IF EXISTS fk_order_item_materials_item,
  ADD CONSTRAINT fk_order_item_materials_item
    FOREIGN KEY (order_item_id) REFERENCES order_items(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK order_item_materials.order_item_id -> order_items.id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE order_costs
  DROP CONSTRAINT IF EXISTS fk_order_costs_order,
  ADD CONSTRAINT fk_order_costs_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK order_costs.order_id -> orders.id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE product_materials
  DROP CONSTRAINT IF EXISTS fk_product_materials_product,
  ADD CONSTRAINT fk_product_materials_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK product_materials.product_id -> products.id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE product_materials
  DROP CONSTRAINT IF EXISTS fk_product_materials_material,
  ADD CONSTRAINT fk_product_materials_material
    FOREIGN KEY (material_id) REFERENCES materials(id) ON DELETE RESTRICT;
`).Error; err != nil {
			log.Error("Не удалось создать FK product_materials.material_id -> materials.id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE product_price_tiers
  DROP CONSTRAINT IF EXISTS fk_price_tiers_product,
  ADD CONSTRAINT fk_price_tiers_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK product_price_tiers.product_id -> products.id", zap.Error(err))
			return err
		}

		log.Info("Внешние ключи успешно созданы")
	}

	log.Info("Миграция базы данных CRM успешно завершена")
	return nil
}
