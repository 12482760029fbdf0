package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/tennis-history/models"
)

// Определяем константы для имен JWT claims
const (
	jwtClaimSubject = "sub"
	jwtClaimRole    = "role"
)

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("user claims not found in context or invalid type")
	}

	roleClaim, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimRole)
	}

	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", jwtClaimRole, roleClaim)
	}

	role := models.UserRole(roleStr)
	if !role.Valid() {
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
	return role, nil
}

// GetEditorFromContext returns the caller of a write route.
func GetEditorFromContext(ctx context.Context) (models.Editor, error) {
	role, err := GetUserRoleFromContext(ctx)
	if err != nil {
		return models.Editor{}, err
	}
	claims := ctx.Value(userContextKey).(jwt.MapClaims)
	sub, _ := claims[jwtClaimSubject].(string)
	return models.Editor{ID: sub, Role: role}, nil
}
