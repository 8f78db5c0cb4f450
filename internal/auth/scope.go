package auth

import (
	"fmt"

	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RestaurantIDForRequest resolve o restaurante da operação: restaurant_admin
// usa sempre o do próprio token; super_admin precisa informar o
// restaurant_id (corpo ou query). O escopo vem como parâmetro explícito para
// os cálculos não dependerem de estado ambiente de sessão.
func RestaurantIDForRequest(c *fiber.Ctx, bodyRestaurantID *uint) (uint, error) {
	roleVal := c.Locals(CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Não foi possível obter o papel do usuário")
	}

	if role == models.RoleRestaurantAdmin {
		ridPtr, ok := c.Locals(CtxRestaurantIDKey).(*uint)
		if !ok || ridPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Restaurante não encontrado no token")
		}
		return *ridPtr, nil
	}

	// super_admin
	if bodyRestaurantID != nil && *bodyRestaurantID != 0 {
		return *bodyRestaurantID, nil
	}

	ridStr := c.Query("restaurant_id")
	if ridStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "restaurant_id obrigatório")
	}
	var rid uint
	if _, err := fmt.Sscan(ridStr, &rid); err != nil || rid == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "restaurant_id inválido")
	}
	return rid, nil
}

// UserInfo busca id e nome do usuário autenticado, para trilha de auditoria.
func UserInfo(c *fiber.Ctx) (uint, string, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Não foi possível obter o usuário")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		// nome só aparece na trilha de auditoria; ausência não bloqueia
		return userID, "", nil
	}
	return userID, user.Name, nil
}
