package auth

import "communityexpress-backend/internal/models"

type Action string

const (
	ActionCommunityCreate Action = "community.create"
	ActionCommunityUpdate Action = "community.update"
	ActionVendorCreate    Action = "vendor.create"
	ActionVendorUpdate    Action = "vendor.update"
	ActionProductCreate   Action = "product.create"
	ActionProductUpdate   Action = "product.update"
	ActionProductDelete   Action = "product.delete"
	ActionOrderCreate     Action = "order.create"
	ActionOrderAdvance    Action = "order.advance"
	ActionOrderCancel     Action = "order.cancel"
	ActionPaymentCreate   Action = "payment.create"
	ActionPaymentRefund   Action = "payment.refund"
	ActionLaundryManage   Action = "laundry.manage"
)

// Permissions is the immutable role → action table. It is built once at
// startup and handed to the route tree; role checks never consult globals.
// Ownership scoping (does this admin own this vendor?) is a separate check
// done by the handler after the role gate passes.
type Permissions struct {
	allowed map[models.UserRole]map[Action]bool
}

func DefaultPermissions() *Permissions {
	return &Permissions{allowed: map[models.UserRole]map[Action]bool{
		models.RoleMaster: {
			ActionCommunityCreate: true,
			ActionCommunityUpdate: true,
			ActionVendorCreate:    true,
			ActionVendorUpdate:    true,
			ActionProductCreate:   true,
			ActionProductUpdate:   true,
			ActionProductDelete:   true,
			ActionOrderCancel:     true,
			ActionPaymentRefund:   true,
			ActionLaundryManage:   true,
		},
		models.RoleAdmin: {
			ActionVendorUpdate:  true,
			ActionProductCreate: true,
			ActionProductUpdate: true,
			ActionProductDelete: true,
			ActionOrderAdvance:  true,
		},
		models.RolePartner: {
			ActionOrderAdvance: true,
		},
		models.RoleUser: {
			ActionOrderCreate:   true,
			ActionOrderCancel:   true,
			ActionPaymentCreate: true,
			ActionPaymentRefund: true,
		},
		models.RoleVendor: {
			// provisioned operator logins own their vendor and move its orders
			ActionOrderAdvance:  true,
			ActionLaundryManage: true,
		},
	}}
}

func (p *Permissions) Allows(role models.UserRole, action Action) bool {
	return p.allowed[role][action]
}
