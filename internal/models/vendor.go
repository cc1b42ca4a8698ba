package models

import "time"

type VendorType string

const (
	VendorTypeMilk     VendorType = "milk"
	VendorTypeLaundry  VendorType = "laundry"
	VendorTypeFood     VendorType = "food"
	VendorTypeCleaning VendorType = "cleaning"
)

// VendorTypeInfo carries the static metadata that differs per vendor type:
// the default delivery window shown to users, the default catalog unit, and
// whether vendor creation must provision a standalone login for the operator.
type VendorTypeInfo struct {
	DeliveryWindowStart string
	DeliveryWindowEnd   string
	DefaultUnit         string
	RequiresLogin       bool
}

var vendorTypeInfos = map[VendorType]VendorTypeInfo{
	VendorTypeMilk:     {DeliveryWindowStart: "05:00", DeliveryWindowEnd: "08:00", DefaultUnit: "litre"},
	VendorTypeLaundry:  {DeliveryWindowStart: "08:00", DeliveryWindowEnd: "18:00", DefaultUnit: "piece", RequiresLogin: true},
	VendorTypeFood:     {DeliveryWindowStart: "11:00", DeliveryWindowEnd: "22:00", DefaultUnit: "plate"},
	VendorTypeCleaning: {DeliveryWindowStart: "09:00", DeliveryWindowEnd: "17:00", DefaultUnit: "visit"},
}

func (t VendorType) Valid() bool {
	_, ok := vendorTypeInfos[t]
	return ok
}

func (t VendorType) Info() VendorTypeInfo {
	return vendorTypeInfos[t]
}

type Vendor struct {
	ID          uint `gorm:"primaryKey"`
	CommunityID uint `gorm:"not null;index"`
	Community   *Community
	AdminID     *uint // owning admin user, set by provisioning for login-backed types
	Admin       *User `gorm:"foreignKey:AdminID"`
	Name        string     `gorm:"size:100;not null"`
	Type        VendorType `gorm:"size:20;not null"`
	Description string     `gorm:"size:255"`
	IsActive    bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Products []Product
}
