package auth

import (
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// Operation classifies what a request is about to do.
type Operation int

const (
	// OpPublic covers token issuance and the password reset endpoints.
	OpPublic Operation = iota
	// OpRead covers catalog reads.
	OpRead
	// OpCreate, OpUpdate and OpDelete cover catalog mutations.
	OpCreate
	OpUpdate
	OpDelete
	// OpAdminView covers the admin overview.
	OpAdminView
)

func (op Operation) String() string {
	switch op {
	case OpPublic:
		return "public"
	case OpRead:
		return "read"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpAdminView:
		return "admin_view"
	default:
		return "unknown"
	}
}

// Caller is the identity attached to a request. A nil *Caller is anonymous.
type Caller struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// IsAuthenticated reports whether the caller presented a valid access token.
func (c *Caller) IsAuthenticated() bool {
	return c != nil && c.UserID != 0
}

// Authorize decides whether caller may perform op. Anyone may read and use the
// public endpoints; everything else needs an admin, and anyone else gets 403.
func Authorize(op Operation, caller *Caller) error {
	switch op {
	case OpPublic, OpRead:
		return nil
	case OpCreate, OpUpdate, OpDelete, OpAdminView:
		if caller.IsAuthenticated() && caller.IsAdmin {
			return nil
		}
		return utils.NewForbiddenError("")
	}
	return utils.NewForbiddenError("")
}

// OperationForMethod maps a catalog request method onto its operation.
func OperationForMethod(method string) Operation {
	switch method {
	case "POST":
		return OpCreate
	case "PUT", "PATCH":
		return OpUpdate
	case "DELETE":
		return OpDelete
	default:
		return OpRead
	}
}
