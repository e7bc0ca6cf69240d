package repository

import (
	database "storefront-checkout/internal/pkg/db"
	accountRepo "storefront-checkout/internal/repository/account"
	deliveryRepo "storefront-checkout/internal/repository/delivery"
	orderRepo "storefront-checkout/internal/repository/order"
	paymentRepo "storefront-checkout/internal/repository/payment"
	productRepo "storefront-checkout/internal/repository/product"
)

// IRepository is a container for all repository interfaces
type IRepository struct {
	Account  accountRepo.IRepository
	Delivery deliveryRepo.IRepository
	Order    orderRepo.IRepository
	Payment  paymentRepo.IRepository
	Product  productRepo.IRepository
}

func New(db *database.Database) IRepository {
	return IRepository{
		Account:  accountRepo.NewRepo(db),
		Delivery: deliveryRepo.NewRepo(db),
		Order:    orderRepo.NewRepo(db),
		Payment:  paymentRepo.NewRepo(db),
		Product:  productRepo.NewRepo(db),
	}
}
