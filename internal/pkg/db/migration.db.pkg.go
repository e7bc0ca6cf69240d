package database

import (
	"fmt"

	"storefront-checkout/internal/common/models"
	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/validation"

	"github.com/shopspring/decimal"
)

func (db *Database) RunMigrations() error {
	logger.Info.Println("Starting database migrations...")

	// Define models in dependency order
	entities := []interface{}{
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.DeliveryMethod{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentIntent{},
	}

	for _, model := range entities {
		logger.Info.Printf("Migrating model: %T", model)
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	if err := db.seedDeliveryMethods(); err != nil {
		return fmt.Errorf("failed to seed delivery methods: %w", err)
	}
	if err := db.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	logger.Info.Println("Database migrations completed successfully")
	return nil
}

// DefaultDeliveryMethods is the reference data the catalog starts with.
func DefaultDeliveryMethods() []models.DeliveryMethod {
	return []models.DeliveryMethod{
		{ID: 1, ShortName: "UPS1", DeliveryTime: "1-2 Days", Description: "Fastest delivery time", Price: decimal.RequireFromString("10")},
		{ID: 2, ShortName: "UPS2", DeliveryTime: "2-5 Days", Description: "Get it within 5 days", Price: decimal.RequireFromString("5")},
		{ID: 3, ShortName: "UPS3", DeliveryTime: "5-10 Days", Description: "Slower but cheap", Price: decimal.RequireFromString("2")},
		{ID: 4, ShortName: "FREE", DeliveryTime: "1-2 Weeks", Description: "Free! You get what you pay for", Price: decimal.Zero},
	}
}

func (db *Database) seedDeliveryMethods() error {
	var count int64
	if err := db.Model(&models.DeliveryMethod{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	methods := DefaultDeliveryMethods()
	if err := validateSeeds(methods); err != nil {
		return err
	}
	return db.Create(&methods).Error
}

// DefaultProducts is a small starter catalog for fresh installs.
func DefaultProducts() []models.Product {
	product := func(name, brand, kind, price string, stock int) models.Product {
		return models.Product{
			Name:            name,
			Description:     name + " by " + brand,
			Price:           decimal.RequireFromString(price),
			PictureURL:      "/images/products/placeholder.png",
			Brand:           brand,
			Type:            kind,
			QuantityInStock: stock,
		}
	}
	return []models.Product{
		product("Angular Speedster Board 2000", "Angular", "Boards", "200", 100),
		product("Green Angular Board 3000", "Angular", "Boards", "150", 100),
		product("Core Board Speed Rush 3", "NetCore", "Boards", "180", 100),
		product("Net Core Super Board", "NetCore", "Boards", "300", 100),
		product("React Board Super Whizzy Fast", "React", "Boards", "250", 100),
		product("Typescript Entry Board", "TypeScript", "Boards", "120", 100),
		product("Core Blue Hat", "NetCore", "Hats", "10", 100),
		product("Green React Woolen Hat", "React", "Hats", "8", 100),
		product("Purple React Woolen Hat", "React", "Hats", "15", 100),
		product("Blue Code Gloves", "VS Code", "Gloves", "18", 100),
		product("Green Code Gloves", "VS Code", "Gloves", "15", 100),
		product("Purple React Gloves", "React", "Gloves", "16", 100),
		product("Redis Red Boots", "Redis", "Boots", "250", 100),
		product("Core Red Boots", "NetCore", "Boots", "189.99", 100),
		product("Core Purple Boots", "NetCore", "Boots", "199.99", 100),
		product("Angular Purple Boots", "Angular", "Boots", "150", 100),
	}
}

func (db *Database) seedProducts() error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := DefaultProducts()
	if err := validateSeeds(products); err != nil {
		return err
	}
	return db.CreateInBatches(&products, 50).Error
}

func validateSeeds[T any](rows []T) error {
	for i := range rows {
		if err := validation.Validate(&rows[i]); err != nil {
			return fmt.Errorf("invalid seed %T #%d: %w", rows[i], i, err)
		}
	}
	return nil
}
