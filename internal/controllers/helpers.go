package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"astegni_backend/internal/config"
	"astegni_backend/internal/models"
	"astegni_backend/internal/roles"
)

// currentUserID pulls the account id the JWT middleware stored on the
// context. Claims decode as float64.
func currentUserID(c *gin.Context) uint {
	return uint(c.MustGet("user_id").(float64))
}

func currentActiveRole(c *gin.Context) string {
	role, _ := c.MustGet("active_role").(string)
	return role
}

// roleHTTPError maps the roles error taxonomy onto HTTP responses.
// Domain errors become 4xx with the reason; anything else is logged
// and reported as a 500.
func roleHTTPError(c *gin.Context, err error) {
	var nf *roles.NotFoundError
	var cv *roles.ConstraintViolationError
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.Is(err, roles.ErrUnknownRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
	case errors.Is(err, roles.ErrRoleNotHeld):
		c.JSON(http.StatusForbidden, gin.H{"error": "role not held by account"})
	case errors.Is(err, roles.ErrRoleAlreadyActive):
		c.JSON(http.StatusConflict, gin.H{"error": "role already active"})
	case errors.As(err, &cv):
		c.JSON(http.StatusConflict, gin.H{"error": cv.Error()})
	case errors.Is(err, roles.ErrGracePeriodExpired):
		c.JSON(http.StatusGone, gin.H{"error": "grace period expired, role must be re-added"})
	default:
		logrus.WithError(err).Error("role operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// prepareUserResponse builds the account payload: stored fields plus
// the derived role set and, when one is selected, the resolved active
// profile reference.
func prepareUserResponse(user models.User) (gin.H, error) {
	resolver := roles.NewResolver(config.DB)
	held, err := resolver.Roles(user.ID)
	if err != nil {
		return nil, err
	}
	roleNames := make([]string, 0, len(held))
	for _, k := range held {
		roleNames = append(roleNames, string(k))
	}

	responseUser := gin.H{
		"ID":               user.ID,
		"CreatedAt":        user.CreatedAt,
		"UpdatedAt":        user.UpdatedAt,
		"first_name":       user.FirstName,
		"father_name":      user.FatherName,
		"grandfather_name": user.GrandfatherName,
		"email":            user.Email,
		"phone":            user.Phone,
		"roles":            roleNames,
		"active_role":      nullableRole(user.ActiveRole),
	}

	if user.ActiveRole != "" {
		ref, err := resolver.ResolveProfile(user.ID, roles.Kind(user.ActiveRole))
		if err == nil {
			responseUser["active_profile"] = ref
		}
	}
	return responseUser, nil
}

func nullableRole(role string) any {
	if role == "" {
		return nil
	}
	return role
}
