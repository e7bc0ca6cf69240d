package models

import (
	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	FirstName string    `json:"firstName" gorm:"type:varchar(100)"`
	LastName  string    `json:"lastName" gorm:"type:varchar(100)"`
	Address   *Address  `json:"address,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// Address is the account's saved address, one per user.
type Address struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	UserID     uuid.UUID `json:"-" gorm:"type:uuid;uniqueIndex;not null"`
	Line1      string    `json:"line1" gorm:"type:varchar(255)" validate:"required"`
	Line2      *string   `json:"line2,omitempty" gorm:"type:varchar(255)"`
	City       string    `json:"city" gorm:"type:varchar(100)" validate:"required"`
	State      string    `json:"state" gorm:"type:varchar(100)"`
	Country    string    `json:"country" gorm:"type:varchar(2)" validate:"required"`
	PostalCode string    `json:"postalCode" gorm:"type:varchar(20)" validate:"required"`
}

func (Address) TableName() string {
	return "addresses"
}

// AddressFromShipping drops the recipient name, which the account address does not keep.
func AddressFromShipping(s *ShippingAddress) *Address {
	if s == nil {
		return nil
	}
	return &Address{
		Line1:      s.Line1,
		Line2:      s.Line2,
		City:       s.City,
		State:      s.State,
		Country:    s.Country,
		PostalCode: s.PostalCode,
	}
}
